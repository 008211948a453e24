package session

import "github.com/google/uuid"

// Stage is the position of a session in the checkout funnel.
type Stage int

const (
	StageIdle Stage = iota
	StageAwaitingQuantity
	StageAwaitingDeliveryChoice
	StageAwaitingAddress
	StageAwaitingPhone
	StageAwaitingConfirmation
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "IDLE"
	case StageAwaitingQuantity:
		return "AWAITING_QUANTITY"
	case StageAwaitingDeliveryChoice:
		return "AWAITING_DELIVERY_CHOICE"
	case StageAwaitingAddress:
		return "AWAITING_ADDRESS"
	case StageAwaitingPhone:
		return "AWAITING_PHONE"
	case StageAwaitingConfirmation:
		return "AWAITING_CONFIRMATION"
	default:
		return "UNKNOWN"
	}
}

type DeliveryType string

const (
	DeliveryStandard DeliveryType = "STANDARD"
	DeliveryExpress  DeliveryType = "EXPRESS"
)

// ExpressSurcharge is the fixed express delivery fee in Ariary.
const ExpressSurcharge = 20000.0

func (d DeliveryType) Surcharge() float64 {
	if d == DeliveryExpress {
		return ExpressSurcharge
	}
	return 0
}

// CartLine pairs a product with a requested quantity. Quantity is always
// positive; fractional values are allowed for volume-priced units.
type CartLine struct {
	ProductID int64
	Quantity  float64
}

// Session is the in-progress checkout state for exactly one user.
// It lives for one checkout attempt: clearing it starts a fresh one.
type Session struct {
	ID               uuid.UUID
	UserID           int64
	Stage            Stage
	Lines            []CartLine
	PendingProductID *int64
	DeliveryType     *DeliveryType
	Address          string
	Phone            string
	Total            *float64
}

func New(userID int64) *Session {
	return &Session{
		ID:     uuid.New(),
		UserID: userID,
	}
}

// AddLine appends a cart line. Lines keep insertion order for display.
func (s *Session) AddLine(productID int64, quantity float64) {
	s.Lines = append(s.Lines, CartLine{ProductID: productID, Quantity: quantity})
}

// Reset clears the session back to a fresh one with a new id.
func (s *Session) Reset() {
	*s = *New(s.UserID)
}

// IsEmpty reports whether the session carries no state worth keeping.
func (s *Session) IsEmpty() bool {
	return s.Stage == StageIdle && len(s.Lines) == 0 && s.PendingProductID == nil
}
