package checkout

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"materiaux-bot/internal/catalog"
	"materiaux-bot/internal/logger"
	"materiaux-bot/internal/order"
	"materiaux-bot/internal/session"
	"materiaux-bot/internal/user"
	"materiaux-bot/internal/utils"

	"go.uber.org/zap"
)

const (
	textCartEmpty      = "Ton panier est vide."
	textGenericFailure = "Une erreur est survenue. Réessaie."
	textOrderFailure   = "Une erreur est survenue lors de l'enregistrement de ta commande. Réessaie."
	textContact        = "Contact support: +261 34 XX XX XX (ou écris ici) — Nous répondons en heures ouvrables."
	textChooseOption   = "Choisissez une option:"
	textDeliveryPrompt = "Choisis le type de livraison :"
	textAddressPrompt  = "Envoie ton adresse de livraison complète (quartier, rue, point de repère) :"
	textPhonePrompt    = "Indique ton numéro de téléphone (ex: 034...) :"
)

const productCallbackPrefix = "p_"

// ProductCallback builds the opaque inline payload for a product button.
func ProductCallback(productID int64) string {
	return fmt.Sprintf("%s%d", productCallbackPrefix, productID)
}

// ParseProductCallback decodes a payload built by ProductCallback.
func ParseProductCallback(data string) (int64, bool) {
	if !strings.HasPrefix(data, productCallbackPrefix) {
		return 0, false
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(data, productCallbackPrefix), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Finalizer converts a completed session into a durable order.
type Finalizer interface {
	Finalize(ctx context.Context, sess *session.Session) (*order.Order, error)
}

// Notifier is told about freshly persisted orders. It must never fail the
// checkout: the order is already committed when it runs.
type Notifier interface {
	OrderPlaced(ctx context.Context, o *order.Order, customer user.User)
}

// Machine interprets inbound events against the per-user session and
// produces the replies to send back. All session mutation happens inside
// the store's per-user critical section.
type Machine struct {
	sessions session.Store
	catalog  catalog.Repository
	orders   Finalizer
	notifier Notifier
}

func NewMachine(sessions session.Store, catalogRepo catalog.Repository, orders Finalizer, notifier Notifier) *Machine {
	return &Machine{
		sessions: sessions,
		catalog:  catalogRepo,
		orders:   orders,
		notifier: notifier,
	}
}

func (m *Machine) Handle(ctx context.Context, from user.User, ev Event) ([]Reply, error) {
	var replies []Reply

	err := m.sessions.Do(from.ID, func(s *session.Session) error {
		var err error
		replies, err = m.dispatch(ctx, from, s, ev)
		return err
	})

	return replies, err
}

func (m *Machine) dispatch(ctx context.Context, from user.User, s *session.Session, ev Event) ([]Reply, error) {
	switch e := ev.(type) {
	case CancelTapped:
		s.Reset()
		return []Reply{{Text: "Commande annulée et panier vidé.", RemoveKeyboard: true}}, nil
	case ProductSelected:
		return m.selectProduct(ctx, s, e.ProductID)
	case MenuAction:
		return m.menuAction(ctx, s, e.Action)
	case ConfirmTapped:
		return m.confirm(ctx, from, s)
	case FreeText:
		return m.freeText(ctx, s, e.Text)
	default:
		return nil, nil
	}
}

func (m *Machine) selectProduct(ctx context.Context, s *session.Session, productID int64) ([]Reply, error) {
	// Product buttons on an old message can arrive mid-checkout;
	// once the funnel has started they no longer apply.
	if s.Stage != session.StageIdle && s.Stage != session.StageAwaitingQuantity {
		return nil, nil
	}

	p, err := m.catalog.GetByID(ctx, productID)
	if errors.Is(err, catalog.ErrProductNotFound) {
		return []Reply{{Text: "Produit introuvable."}}, nil
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to load selected product",
			zap.Int64("product_id", productID),
			zap.Error(err),
		)
		return []Reply{{Text: textGenericFailure}}, nil
	}

	s.PendingProductID = &p.ID
	s.Stage = session.StageAwaitingQuantity

	return []Reply{{Text: productPrompt(p), Markdown: true}}, nil
}

func (m *Machine) menuAction(ctx context.Context, s *session.Session, a Action) ([]Reply, error) {
	switch a {
	case ActionViewProducts, ActionAddProduct:
		return m.listProducts(ctx)
	case ActionViewCart:
		return m.viewCart(ctx, s)
	case ActionClearCart:
		s.Reset()
		return []Reply{{Text: "Panier vidé."}}, nil
	case ActionCheckout:
		return m.startCheckout(s)
	case ActionContact:
		return []Reply{{Text: textContact}}, nil
	case ActionBack:
		if s.Stage == session.StageAwaitingDeliveryChoice {
			s.Stage = session.StageIdle
		}
		return []Reply{{Text: textChooseOption, Keyboard: MainMenuKeyboard()}}, nil
	default:
		return nil, nil
	}
}

func (m *Machine) listProducts(ctx context.Context) ([]Reply, error) {
	products, err := m.catalog.GetAll(ctx)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to list products", zap.Error(err))
		return []Reply{{Text: textGenericFailure}}, nil
	}

	if len(products) == 0 {
		return []Reply{{Text: "Aucun produit trouvé. L'admin doit ajouter des produits via la base."}}, nil
	}

	buttons := make([]InlineButton, 0, len(products))
	for _, p := range products {
		buttons = append(buttons, InlineButton{
			Label: fmt.Sprintf("%s — %s Ar / %s", p.Name, utils.FormatNumber(p.UnitPrice), p.Unit),
			Data:  ProductCallback(p.ID),
		})
	}

	return []Reply{{Text: "Nos produits :", Inline: buttons}}, nil
}

func (m *Machine) viewCart(ctx context.Context, s *session.Session) ([]Reply, error) {
	if len(s.Lines) == 0 {
		return []Reply{{Text: textCartEmpty}}, nil
	}

	views, total, err := m.loadLines(ctx, s.Lines)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to build cart view", zap.Error(err))
		return []Reply{{Text: textGenericFailure}}, nil
	}

	var b strings.Builder
	b.WriteString("*Ton panier:*\n")
	for _, v := range views {
		b.WriteString(fmt.Sprintf("- %s: %s %s x %s Ar = %s Ar\n",
			v.product.Name,
			utils.FormatNumber(v.quantity),
			v.product.Unit,
			utils.FormatNumber(v.product.UnitPrice),
			utils.FormatNumber(v.quantity*v.product.UnitPrice),
		))
	}
	b.WriteString(fmt.Sprintf("\n*Total:* %s Ar\n", utils.FormatNumber(total)))

	return []Reply{{Text: b.String(), Markdown: true, Keyboard: cartKeyboard()}}, nil
}

func (m *Machine) startCheckout(s *session.Session) ([]Reply, error) {
	if len(s.Lines) == 0 {
		return []Reply{{Text: textCartEmpty}}, nil
	}
	if s.Stage != session.StageIdle && s.Stage != session.StageAwaitingDeliveryChoice {
		return nil, nil
	}

	s.Stage = session.StageAwaitingDeliveryChoice

	return []Reply{{Text: textDeliveryPrompt, Keyboard: deliveryKeyboard()}}, nil
}

func (m *Machine) freeText(ctx context.Context, s *session.Session, text string) ([]Reply, error) {
	switch s.Stage {
	case session.StageAwaitingQuantity:
		return m.applyQuantity(ctx, s, text)

	case session.StageAwaitingDeliveryChoice:
		dt, ok := MatchDeliveryChoice(text)
		if !ok {
			return []Reply{{
				Text:     "Choix non reconnu. " + textDeliveryPrompt,
				Keyboard: deliveryKeyboard(),
			}}, nil
		}
		s.DeliveryType = &dt
		s.Stage = session.StageAwaitingAddress
		return []Reply{{Text: textAddressPrompt, RemoveKeyboard: true}}, nil

	case session.StageAwaitingAddress:
		t := strings.TrimSpace(text)
		if t == "" {
			return []Reply{{Text: textAddressPrompt}}, nil
		}
		s.Address = t
		s.Stage = session.StageAwaitingPhone
		return []Reply{{Text: textPhonePrompt}}, nil

	case session.StageAwaitingPhone:
		return m.applyPhone(ctx, s, text)

	default:
		// Idle and AwaitingConfirmation: unknown input is ignored on
		// purpose rather than answered with an error.
		return nil, nil
	}
}

func (m *Machine) applyQuantity(ctx context.Context, s *session.Session, text string) ([]Reply, error) {
	q, err := ParseQuantity(text)
	if err != nil {
		logger.FromCtx(ctx).Debug("invalid quantity input", zap.String("text", text))
		return []Reply{{Text: "Quantité invalide. Envoie un nombre (ex: 10 ou 0.5)."}}, nil
	}

	if s.PendingProductID == nil {
		s.Stage = session.StageIdle
		return nil, nil
	}
	productID := *s.PendingProductID

	p, err := m.catalog.GetByID(ctx, productID)
	if errors.Is(err, catalog.ErrProductNotFound) {
		s.PendingProductID = nil
		s.Stage = session.StageIdle
		return []Reply{{Text: "Produit introuvable."}}, nil
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to load pending product",
			zap.Int64("product_id", productID),
			zap.Error(err),
		)
		return []Reply{{Text: textGenericFailure}}, nil
	}

	s.AddLine(productID, q)
	s.PendingProductID = nil
	s.Stage = session.StageIdle

	return []Reply{{
		Text:     fmt.Sprintf("%s x %s ajouté au panier.", p.Name, utils.FormatNumber(q)),
		Keyboard: MainMenuKeyboard(),
	}}, nil
}

func (m *Machine) applyPhone(ctx context.Context, s *session.Session, text string) ([]Reply, error) {
	t := strings.TrimSpace(text)
	if t == "" {
		return []Reply{{Text: textPhonePrompt}}, nil
	}

	views, total, err := m.loadLines(ctx, s.Lines)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to compute order total", zap.Error(err))
		return []Reply{{Text: textGenericFailure}}, nil
	}
	if s.DeliveryType != nil {
		total += s.DeliveryType.Surcharge()
	}

	s.Phone = t
	s.Total = &total
	s.Stage = session.StageAwaitingConfirmation

	return []Reply{{
		Text:     m.summaryText(s, views, total),
		Markdown: true,
		Keyboard: confirmKeyboard(),
	}}, nil
}

func (m *Machine) confirm(ctx context.Context, from user.User, s *session.Session) ([]Reply, error) {
	if s.Stage != session.StageAwaitingConfirmation {
		return []Reply{{Text: "Aucune commande à confirmer."}}, nil
	}

	o, err := m.orders.Finalize(ctx, s)
	if err != nil {
		// Session kept as-is so the user can retry the confirmation.
		logger.FromCtx(ctx).Error("failed to finalize order",
			zap.String("session_id", s.ID.String()),
			zap.Error(err),
		)
		return []Reply{{Text: textOrderFailure}}, nil
	}

	m.notifier.OrderPlaced(ctx, o, from)
	s.Reset()

	return []Reply{{
		Text:           fmt.Sprintf("✅ Ta commande #%d a été reçue. Nous te contacterons pour confirmer la livraison.", o.ID),
		RemoveKeyboard: true,
	}}, nil
}

type cartLineView struct {
	product  *catalog.Product
	quantity float64
}

// loadLines resolves every cart line against the catalog and returns the
// views plus the item subtotal. Prices are read fresh on every call, never
// cached on the session.
func (m *Machine) loadLines(ctx context.Context, lines []session.CartLine) ([]cartLineView, float64, error) {
	views := make([]cartLineView, 0, len(lines))
	total := 0.0

	for _, line := range lines {
		p, err := m.catalog.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, 0, fmt.Errorf("resolve product %d: %w", line.ProductID, err)
		}
		views = append(views, cartLineView{product: p, quantity: line.Quantity})
		total += line.Quantity * p.UnitPrice
	}

	return views, total, nil
}

func productPrompt(p *catalog.Product) string {
	desc := "-"
	if p.Description != nil && *p.Description != "" {
		desc = *p.Description
	}
	stock := "∞"
	if p.Stock != nil {
		stock = strconv.FormatInt(*p.Stock, 10)
	}

	return fmt.Sprintf(
		"Produit: *%s* — %s Ar / %s\nDescription: %s\nStock: %s\n\nIndique la quantité que tu veux (ex: 10 pour 10 unités / 0.5 pour 0.5 m3) :",
		p.Name, utils.FormatNumber(p.UnitPrice), p.Unit, desc, stock,
	)
}

func (m *Machine) summaryText(s *session.Session, views []cartLineView, total float64) string {
	var b strings.Builder
	b.WriteString("*Récapitulatif de commande:*\n")
	for _, v := range views {
		b.WriteString(fmt.Sprintf("- %s: %s %s x %s = %s Ar\n",
			v.product.Name,
			utils.FormatNumber(v.quantity),
			v.product.Unit,
			utils.FormatNumber(v.product.UnitPrice),
			utils.FormatNumber(v.quantity*v.product.UnitPrice),
		))
	}

	delivery := ""
	if s.DeliveryType != nil {
		delivery = string(*s.DeliveryType)
	}

	b.WriteString(fmt.Sprintf(
		"\nLivraison: %s\nAdresse: %s\nTéléphone: %s\n*Total à payer:* %s Ar\n\nConfirmer la commande ?",
		delivery, s.Address, s.Phone, utils.FormatNumber(total),
	))

	return b.String()
}
