package types

// PaymentMethod enumerates how a member pays. Wave and Orange Money are the
// mobile-money rails of the DEXCHANGE gateway; card covers everything else.
type PaymentMethod string

const (
	PaymentMethodWave        PaymentMethod = "wave"
	PaymentMethodOrangeMoney PaymentMethod = "orange_money"
	PaymentMethodCard        PaymentMethod = "card"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodWave, PaymentMethodOrangeMoney, PaymentMethodCard:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusInitiated PaymentStatus = "initiated"
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusSucceeded PaymentStatus = "succeeded"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// Terminal reports whether the gateway is done with this payment. A repeated
// webhook carrying the same terminal status is a no-op; a different terminal
// status is a ledger/gateway disagreement.
func (s PaymentStatus) Terminal() bool {
	switch s {
	case PaymentStatusSucceeded, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

// CurrencyXOF is the only settlement currency. XOF has no minor unit, so
// amounts are whole francs.
const CurrencyXOF = "XOF"
