package checkout

// Action is a main-menu or cart-menu button tap.
type Action int

const (
	ActionViewProducts Action = iota
	ActionViewCart
	ActionAddProduct
	ActionClearCart
	ActionCheckout
	ActionContact
	ActionBack
)

func (a Action) String() string {
	switch a {
	case ActionViewProducts:
		return "VIEW_PRODUCTS"
	case ActionViewCart:
		return "VIEW_CART"
	case ActionAddProduct:
		return "ADD_PRODUCT"
	case ActionClearCart:
		return "CLEAR_CART"
	case ActionCheckout:
		return "CHECKOUT"
	case ActionContact:
		return "CONTACT"
	case ActionBack:
		return "BACK"
	default:
		return "UNKNOWN"
	}
}

// Event is one inbound conversation step, already decoded by the transport.
type Event interface {
	isEvent()
}

// FreeText is a plain message whose meaning depends on the current stage.
type FreeText struct {
	Text string
}

// MenuAction is a recognized keyboard button.
type MenuAction struct {
	Action Action
}

// ProductSelected is an inline button callback carrying a product id.
type ProductSelected struct {
	ProductID int64
}

// ConfirmTapped confirms the order summary.
type ConfirmTapped struct{}

// CancelTapped aborts the checkout from any stage.
type CancelTapped struct{}

func (FreeText) isEvent()        {}
func (MenuAction) isEvent()      {}
func (ProductSelected) isEvent() {}
func (ConfirmTapped) isEvent()   {}
func (CancelTapped) isEvent()    {}
