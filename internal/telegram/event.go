package telegram

import "materiaux-bot/internal/checkout"

// menuActions maps keyboard button text to its checkout action. Buttons
// arrive as ordinary messages, so matching has to be exact on the label.
var menuActions = map[string]checkout.Action{
	checkout.LabelViewProducts: checkout.ActionViewProducts,
	checkout.LabelViewCart:     checkout.ActionViewCart,
	checkout.LabelAddProduct:   checkout.ActionAddProduct,
	checkout.LabelClearCart:    checkout.ActionClearCart,
	checkout.LabelCheckout:     checkout.ActionCheckout,
	checkout.LabelContact:      checkout.ActionContact,
	checkout.LabelBack:         checkout.ActionBack,
}

// eventFromText decodes one incoming message into a checkout event.
func eventFromText(text string) checkout.Event {
	if action, ok := menuActions[text]; ok {
		return checkout.MenuAction{Action: action}
	}
	switch text {
	case checkout.LabelConfirm:
		return checkout.ConfirmTapped{}
	case checkout.LabelCancel:
		return checkout.CancelTapped{}
	}
	return checkout.FreeText{Text: text}
}
