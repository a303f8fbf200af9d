// Package normalize converts provider webhook events into domain.NormalizedEvent.
package normalize

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/josh-kwaku/stripe-live-feed/internal/domain"
)

const (
	unknownPlan     = "Unknown Plan"
	defaultCurrency = "usd"
)

// extractor fills type specific fields from the raw data.object and returns
// the object's own created time, or zero if it has none.
type extractor func(obj json.RawMessage, e *domain.NormalizedEvent) int64

type rule struct {
	category domain.Category
	action   string
	extract  extractor
}

var rules = map[string]rule{
	"charge.succeeded": {domain.CategoryCharge, "charge succeeded", extractCharge},
	"charge.failed":    {domain.CategoryCharge, "charge failed", extractCharge},

	"customer.created": {domain.CategoryCustomer, "new customer", extractCustomer},
	"customer.updated": {domain.CategoryCustomer, "customer updated", extractCustomer},

	"application_fee.created": {domain.CategoryFee, "application fee created", extractApplicationFee},

	"customer.subscription.created": {domain.CategorySubscription, "subscription created", extractSubscription},
	"customer.subscription.updated": {domain.CategorySubscription, "subscription updated", extractSubscription},

	"subscription_schedule.updated":  {domain.CategorySubscriptionSchedule, "subscription schedule updated", extractStatus},
	"subscription_schedule.released": {domain.CategorySubscriptionSchedule, "subscription schedule released", extractStatus},

	"invoice.created":           {domain.CategoryInvoice, "invoice created", extractInvoice},
	"invoice.updated":           {domain.CategoryInvoice, "invoice updated", extractInvoice},
	"invoice.paid":              {domain.CategoryInvoice, "invoice paid", extractInvoice},
	"invoice.finalized":         {domain.CategoryInvoice, "invoice finalized", extractInvoice},
	"invoice.upcoming":          {domain.CategoryInvoice, "invoice upcoming", extractInvoice},
	"invoice.payment_succeeded": {domain.CategoryInvoice, "invoice payment succeeded", extractInvoice},

	"checkout.session.expired": {domain.CategoryCheckout, "checkout session expired", extractExpiredCheckout},

	"payment_intent.created":   {domain.CategoryPaymentIntent, "payment intent created", extractPaymentIntent},
	"payment_intent.succeeded": {domain.CategoryPaymentIntent, "payment intent succeeded", extractPaymentIntent},

	"payment_method.attached": {domain.CategoryPaymentMethod, "payment method attached", extractNothing},
}

// KnownTypes lists the provider event types with a dedicated rule, sorted.
func KnownTypes() []string {
	types := make([]string, 0, len(rules))
	for t := range rules {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

type Normalizer struct {
	now func() time.Time
}

func New() *Normalizer {
	return &Normalizer{now: time.Now}
}

// Normalize never fails: unrecognised types become CategoryGeneric events
// whose details carry the provider type verbatim, and missing or mistyped
// payload fields are left empty.
func (n *Normalizer) Normalize(evt ProviderEvent, ch domain.Channel) domain.NormalizedEvent {
	r, ok := rules[evt.Type]
	if !ok {
		action := evt.Type
		if action == "" {
			action = "unknown event"
		}
		r = rule{category: domain.CategoryGeneric, action: action, extract: extractNothing}
	}

	out := domain.NormalizedEvent{
		Type:    r.category,
		Details: fmt.Sprintf("%s %s", ch.Label(), r.action),
	}

	created := r.extract(evt.Data.Object, &out)
	out.Timestamp = n.timestamp(created, evt.Created)

	if ch.IsConnect() && evt.Account != "" {
		account := evt.Account
		out.ConnectAccount = &account
	}
	return out
}

// timestamp takes the first candidate that renders as a valid timestamp and
// falls back to ingestion time.
func (n *Normalizer) timestamp(candidates ...int64) domain.Timestamp {
	for _, sec := range candidates {
		if domain.ValidUnix(sec) {
			return domain.TimestampFromUnix(sec)
		}
	}
	return domain.NewTimestamp(n.now())
}

// decode fills as much of v as the object allows. Type mismatches on single
// fields do not stop the remaining fields from decoding.
func decode(obj json.RawMessage, v any) {
	if len(obj) == 0 {
		return
	}
	_ = json.Unmarshal(obj, v)
}

func extractCharge(obj json.RawMessage, e *domain.NormalizedEvent) int64 {
	var c chargeObject
	decode(obj, &c)
	e.Status = c.Status
	e.Amount = c.Amount.amount()
	e.Currency = c.Currency
	e.Country = c.BillingDetails.Address.Country
	return c.Created
}

func extractCustomer(obj json.RawMessage, e *domain.NormalizedEvent) int64 {
	var c customerObject
	decode(obj, &c)
	e.Email = c.Email
	return c.Created
}

func extractApplicationFee(obj json.RawMessage, e *domain.NormalizedEvent) int64 {
	var f applicationFeeObject
	decode(obj, &f)
	e.Amount = f.Amount.amount()
	e.Currency = f.Currency
	return f.Created
}

func extractSubscription(obj json.RawMessage, e *domain.NormalizedEvent) int64 {
	var s subscriptionObject
	decode(obj, &s)
	item := s.firstItem()

	e.Status = s.Status
	e.Email = s.CustomerEmail
	e.Plan = firstNonEmpty(item.Plan.Nickname, item.Price.Nickname, unknownPlan)
	e.Currency = firstNonEmpty(s.Currency, item.Plan.Currency, item.Price.Currency, defaultCurrency)

	quantity := item.Quantity
	if quantity == 0 {
		quantity = 1
	}
	e.Quantity = &quantity

	minor := item.Plan.Amount
	if !minor.set || minor.value == 0 {
		if item.Price.UnitAmount.set {
			minor = item.Price.UnitAmount
		}
	}
	e.Amount = minor.amount()
	return s.Created
}

func extractStatus(obj json.RawMessage, e *domain.NormalizedEvent) int64 {
	var s statusObject
	decode(obj, &s)
	e.Status = s.Status
	return s.Created
}

func extractInvoice(obj json.RawMessage, e *domain.NormalizedEvent) int64 {
	var inv invoiceObject
	decode(obj, &inv)
	e.Status = inv.Status
	e.Amount = inv.Total.amount()
	e.Currency = inv.Currency
	e.Email = inv.CustomerEmail
	return inv.Created
}

func extractExpiredCheckout(obj json.RawMessage, e *domain.NormalizedEvent) int64 {
	var s statusObject
	decode(obj, &s)
	e.Status = "expired"
	return s.Created
}

func extractPaymentIntent(obj json.RawMessage, e *domain.NormalizedEvent) int64 {
	var pi paymentIntentObject
	decode(obj, &pi)
	e.Status = pi.Status
	e.Amount = pi.Amount.amount()
	e.Currency = pi.Currency
	return pi.Created
}

// extractNothing keeps only the envelope level fields; the event timestamp
// comes from the envelope.
func extractNothing(json.RawMessage, *domain.NormalizedEvent) int64 {
	return 0
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
