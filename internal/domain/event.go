package domain

type Category string

const (
	CategoryCharge               Category = "charge"
	CategoryCustomer             Category = "customer"
	CategoryFee                  Category = "fee"
	CategorySubscription         Category = "subscription"
	CategorySubscriptionSchedule Category = "subscription_schedule"
	CategoryInvoice              Category = "invoice"
	CategoryCheckout             Category = "checkout"
	CategoryPaymentIntent        Category = "payment_intent"
	CategoryPaymentMethod        Category = "payment_method"
	CategoryGeneric              Category = "generic"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryCharge, CategoryCustomer, CategoryFee, CategorySubscription,
		CategorySubscriptionSchedule, CategoryInvoice, CategoryCheckout,
		CategoryPaymentIntent, CategoryPaymentMethod, CategoryGeneric:
		return true
	}
	return false
}

type Channel string

const (
	ChannelPlatform Channel = "platform"
	ChannelConnect  Channel = "connect"
)

func (c Channel) IsConnect() bool { return c == ChannelConnect }

// Label is the channel name as it appears in event details.
func (c Channel) Label() string {
	if c.IsConnect() {
		return "Connect"
	}
	return "Platform"
}

// NormalizedEvent is the provider-agnostic record kept in the event store and
// served to polling clients. ConnectAccount is serialized as null for platform
// events.
type NormalizedEvent struct {
	Type           Category  `json:"type"`
	Status         string    `json:"status,omitempty"`
	Amount         *Amount   `json:"amount,omitempty"`
	Currency       string    `json:"currency,omitempty"`
	Country        string    `json:"country,omitempty"`
	Timestamp      Timestamp `json:"timestamp"`
	Details        string    `json:"details"`
	Email          string    `json:"email,omitempty"`
	Plan           string    `json:"plan,omitempty"`
	Quantity       *int64    `json:"quantity,omitempty"`
	ConnectAccount *string   `json:"connectAccount"`
}
