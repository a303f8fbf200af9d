package normalize

import (
	"encoding/json"
	"fmt"

	"github.com/josh-kwaku/stripe-live-feed/internal/domain"
)

// ProviderEvent is the webhook envelope as sent by the payment provider. The
// shape of Data.Object depends on Type. Account is only set on events
// delivered for a connected account.
type ProviderEvent struct {
	ID      string    `json:"id"`
	Type    string    `json:"type"`
	Created int64     `json:"created"`
	Account string    `json:"account"`
	Data    EventData `json:"data"`
}

type EventData struct {
	Object json.RawMessage `json:"object"`
}

// ParseEvent decodes a verified request body. Only a body that is not valid
// JSON is rejected. Envelope fields of an unexpected type are left at their
// zero value, the same way object fields are.
func ParseEvent(body []byte) (ProviderEvent, error) {
	var raw json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return ProviderEvent{}, fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
	}

	var evt ProviderEvent
	decode(raw, &evt)
	return evt, nil
}

// minorUnits is an optional amount in the currency's smallest unit. A missing,
// null or non-integer value leaves it unset.
type minorUnits struct {
	value int64
	set   bool
}

func (m *minorUnits) UnmarshalJSON(b []byte) error {
	var v *int64
	if json.Unmarshal(b, &v) == nil && v != nil {
		*m = minorUnits{value: *v, set: true}
	}
	return nil
}

func (m minorUnits) amount() *domain.Amount {
	if !m.set {
		return nil
	}
	a := domain.AmountFromMinor(m.value)
	return &a
}

// Object shapes below declare only the fields the normalizer reads. Every
// field is optional on the wire; absent values decode to their zero value.

type address struct {
	Country string `json:"country"`
}

type billingDetails struct {
	Address address `json:"address"`
}

type chargeObject struct {
	Status         string         `json:"status"`
	Amount         minorUnits     `json:"amount"`
	Currency       string         `json:"currency"`
	Created        int64          `json:"created"`
	BillingDetails billingDetails `json:"billing_details"`
}

type customerObject struct {
	Email   string `json:"email"`
	Created int64  `json:"created"`
}

type applicationFeeObject struct {
	Amount   minorUnits `json:"amount"`
	Currency string     `json:"currency"`
	Created  int64      `json:"created"`
}

type plan struct {
	Nickname string     `json:"nickname"`
	Amount   minorUnits `json:"amount"`
	Currency string     `json:"currency"`
}

type price struct {
	Nickname   string     `json:"nickname"`
	UnitAmount minorUnits `json:"unit_amount"`
	Currency   string     `json:"currency"`
}

type subscriptionItem struct {
	Quantity int64 `json:"quantity"`
	Plan     plan  `json:"plan"`
	Price    price `json:"price"`
}

type subscriptionObject struct {
	Status        string `json:"status"`
	Currency      string `json:"currency"`
	CustomerEmail string `json:"customer_email"`
	Created       int64  `json:"created"`
	Items         struct {
		Data []subscriptionItem `json:"data"`
	} `json:"items"`
}

func (s subscriptionObject) firstItem() subscriptionItem {
	if len(s.Items.Data) == 0 {
		return subscriptionItem{}
	}
	return s.Items.Data[0]
}

type statusObject struct {
	Status  string `json:"status"`
	Created int64  `json:"created"`
}

type invoiceObject struct {
	Status        string     `json:"status"`
	Total         minorUnits `json:"total"`
	Currency      string     `json:"currency"`
	CustomerEmail string     `json:"customer_email"`
	Created       int64      `json:"created"`
}

type paymentIntentObject struct {
	Status   string     `json:"status"`
	Amount   minorUnits `json:"amount"`
	Currency string     `json:"currency"`
	Created  int64      `json:"created"`
}
