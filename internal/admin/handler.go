package admin

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"materiaux-bot/internal/checkout"
	"materiaux-bot/internal/logger"
	"materiaux-bot/internal/order"
	"materiaux-bot/internal/user"
	"materiaux-bot/internal/utils"

	"go.uber.org/zap"
)

const recentOrdersLimit = 10

// StatusNotifier tells the affected customer about a status change.
type StatusNotifier interface {
	StatusChanged(ctx context.Context, o *order.Order)
}

// Handler serves the operator command surface. Commands from anyone but
// the configured operator are ignored without a reply, as are malformed
// ones, so the command set stays invisible to customers.
type Handler struct {
	operatorChatID int64
	orders         order.Service
	users          user.Repository
	notifier       StatusNotifier
}

func NewHandler(operatorChatID int64, orders order.Service, users user.Repository, notifier StatusNotifier) *Handler {
	return &Handler{
		operatorChatID: operatorChatID,
		orders:         orders,
		users:          users,
		notifier:       notifier,
	}
}

// Handle dispatches one slash command. A nil reply means no response at
// all, not an empty message.
func (h *Handler) Handle(ctx context.Context, fromChatID int64, text string) *checkout.Reply {
	if fromChatID != h.operatorChatID {
		return nil
	}

	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "/list_orders":
		return h.listOrders(ctx)
	case "/view_order":
		if len(fields) != 2 {
			return nil
		}
		id, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return nil
		}
		return h.viewOrder(ctx, id)
	case "/set_status":
		if len(fields) != 3 {
			return nil
		}
		id, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return nil
		}
		return h.setStatus(ctx, id, fields[2])
	}
	return nil
}

func (h *Handler) listOrders(ctx context.Context) *checkout.Reply {
	orders, err := h.orders.ListRecent(ctx, recentOrdersLimit)
	if err != nil {
		return &checkout.Reply{Text: "Une erreur est survenue. Réessaie."}
	}
	if len(orders) == 0 {
		return &checkout.Reply{Text: "Aucune commande."}
	}

	var b strings.Builder
	b.WriteString("*Commandes récentes:*\n")
	for _, o := range orders {
		b.WriteString(fmt.Sprintf("#%d — %s — %s Ar — %s\n",
			o.ID, o.Status, utils.FormatNumber(o.Total),
			o.CreatedAt.Format("2006-01-02 15:04"),
		))
	}
	return &checkout.Reply{Text: b.String(), Markdown: true}
}

func (h *Handler) viewOrder(ctx context.Context, id int64) *checkout.Reply {
	o, err := h.orders.Detail(ctx, id)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			return &checkout.Reply{Text: "Commande introuvable."}
		}
		return &checkout.Reply{Text: "Une erreur est survenue. Réessaie."}
	}

	clientLine := fmt.Sprintf("Client: %d", o.UserID)
	if u, err := h.users.FindByID(ctx, o.UserID); err == nil && u != nil {
		clientLine = fmt.Sprintf("Client: %s (%d)", u.DisplayName(), o.UserID)
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("*Commande #%d* — %s\n", o.ID, o.Status))
	b.WriteString(clientLine + "\n")
	b.WriteString(fmt.Sprintf("Tel: %s\n", o.Phone))
	b.WriteString(fmt.Sprintf("Adresse: %s\n", o.Address))
	b.WriteString(fmt.Sprintf("Livraison: %s\n", o.DeliveryType))
	b.WriteString(fmt.Sprintf("Créée le: %s\n\nItems:\n", o.CreatedAt.Format("2006-01-02 15:04")))
	for _, item := range o.Items {
		b.WriteString(fmt.Sprintf("- %s: %s %s x %s = %s Ar\n",
			item.ProductName,
			utils.FormatNumber(item.Quantity),
			item.Unit,
			utils.FormatNumber(item.UnitPrice),
			utils.FormatNumber(item.Subtotal()),
		))
	}
	b.WriteString(fmt.Sprintf("\n*Total: %s Ar*\n", utils.FormatNumber(o.Total)))
	b.WriteString("\nUtilise /set_status <id> STATUS (EN_COURS|LIVRÉ|ANNULÉ)")
	return &checkout.Reply{Text: b.String(), Markdown: true}
}

func (h *Handler) setStatus(ctx context.Context, id int64, token string) *checkout.Reply {
	o, err := h.orders.SetStatus(ctx, id, token)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			return &checkout.Reply{Text: "Commande introuvable."}
		}
		logger.FromCtx(ctx).Error("failed to update order status",
			zap.Int64("order_id", id),
			zap.Error(err),
		)
		return &checkout.Reply{Text: "Une erreur est survenue. Réessaie."}
	}

	h.notifier.StatusChanged(ctx, o)
	return &checkout.Reply{Text: fmt.Sprintf("Commande #%d mise à jour: %s", o.ID, o.Status)}
}
