package notify

import (
	"context"
	"fmt"
	"strings"

	"materiaux-bot/internal/logger"
	"materiaux-bot/internal/order"
	"materiaux-bot/internal/user"
	"materiaux-bot/internal/utils"

	"go.uber.org/zap"
)

// Sender delivers one message to one chat. Implemented by the transport.
type Sender interface {
	Send(chatID int64, text string, markdown bool) error
}

// Dispatcher formats and routes the downstream notifications. Every send
// is fire-and-forget: by the time a notification goes out the order is
// already durably committed, so a delivery failure is only logged.
type Dispatcher struct {
	sender         Sender
	operatorChatID int64
}

func NewDispatcher(sender Sender, operatorChatID int64) *Dispatcher {
	return &Dispatcher{sender: sender, operatorChatID: operatorChatID}
}

// OrderPlaced sends the operator the full order summary.
func (d *Dispatcher) OrderPlaced(ctx context.Context, o *order.Order, customer user.User) {
	username := "—"
	if customer.Username != "" {
		username = customer.Username
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("📥 *Nouvelle commande* #%d\n", o.ID))
	b.WriteString(fmt.Sprintf("Client: %s (@%s)\n", customer.DisplayName(), username))
	b.WriteString(fmt.Sprintf("Tel: %s\n", o.Phone))
	b.WriteString(fmt.Sprintf("Adresse: %s\n", o.Address))
	b.WriteString(fmt.Sprintf("Livraison: %s\n", o.DeliveryType))
	b.WriteString(fmt.Sprintf("Total: %s Ar\n\nItems:\n", utils.FormatNumber(o.Total)))
	for _, item := range o.Items {
		b.WriteString(fmt.Sprintf("- %s: %s %s x %s = %s Ar\n",
			item.ProductName,
			utils.FormatNumber(item.Quantity),
			item.Unit,
			utils.FormatNumber(item.UnitPrice),
			utils.FormatNumber(item.Subtotal()),
		))
	}

	if err := d.sender.Send(d.operatorChatID, b.String(), true); err != nil {
		logger.FromCtx(ctx).Error("failed to notify operator",
			zap.Int64("order_id", o.ID),
			zap.Error(err),
		)
	}
}

// NotifyCustomer sends plain text to a customer chat.
func (d *Dispatcher) NotifyCustomer(ctx context.Context, userID int64, text string) {
	if err := d.sender.Send(userID, text, false); err != nil {
		logger.FromCtx(ctx).Error("failed to notify customer",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}
}

// StatusChanged tells the order's owner about an operator status update.
func (d *Dispatcher) StatusChanged(ctx context.Context, o *order.Order) {
	text := fmt.Sprintf("Votre commande #%d est maintenant: %s", o.ID, o.Status)
	d.NotifyCustomer(ctx, o.UserID, text)
}
