package checkout

// InlineButton is one inline keyboard button with an opaque callback payload.
type InlineButton struct {
	Label string
	Data  string
}

// Reply is one outbound message to the user the event came from.
// The transport renders it; the machine never talks to the network.
type Reply struct {
	Text           string
	Markdown       bool
	Keyboard       [][]string     // reply keyboard rows, nil for none
	Inline         []InlineButton // one button per row, like the product list
	RemoveKeyboard bool
}

// Menu button labels. The transport matches incoming text against these,
// so they must stay byte-identical between keyboard and matcher.
const (
	LabelViewProducts = "🧱 Voir les produits"
	LabelViewCart     = "🛒 Voir mon panier"
	LabelAddProduct   = "➕ Ajouter produit"
	LabelClearCart    = "🗑️ Vider panier"
	LabelCheckout     = "📦 Passer commande"
	LabelContact      = "📞 Contact / Support"
	LabelBack         = "↩️ Retour"
	LabelConfirm      = "✅ Confirmer"
	LabelCancel       = "❌ Annuler"
)

func MainMenuKeyboard() [][]string {
	return [][]string{
		{LabelViewProducts, LabelViewCart},
		{LabelCheckout, LabelContact},
	}
}

func cartKeyboard() [][]string {
	return [][]string{
		{LabelAddProduct, LabelClearCart},
		{LabelCheckout, LabelBack},
	}
}

func deliveryKeyboard() [][]string {
	return [][]string{
		{LabelDeliveryStandard},
		{LabelDeliveryExpress},
		{LabelBack},
	}
}

func confirmKeyboard() [][]string {
	return [][]string{
		{LabelConfirm},
		{LabelCancel},
	}
}
