package wizard

// Field ids of the property wizard.
const (
	FieldName            = "name"
	FieldAddress         = "address"
	FieldCity            = "city"
	FieldPropertyType    = "propertyType"
	FieldAcquisitionDate = "acquisitionDate"
	FieldPurchasePrice   = "purchasePrice"
	FieldCurrentValue    = "currentValue"
	FieldNotes           = "notes"
)

// PropertyIntro opens every property conversation.
const PropertyIntro = "Bonjour! Je vais t'aider à ajouter une propriété, une question à la fois. " +
	"Tu peux répondre « passer » pour laisser un champ facultatif vide."

// PropertyTypes lists the accepted property types in display order.
var PropertyTypes = []Choice{
	{Value: "plex", Label: "Plex", Aliases: []string{"duplex", "triplex", "quadruplex", "multiplex", "multilogement"}},
	{Value: "condo", Label: "Condo", Aliases: []string{"condominium", "copropriété", "appartement", "apartment"}},
	{Value: "house", Label: "Maison", Aliases: []string{"unifamiliale", "single family", "bungalow"}},
	{Value: "cottage", Label: "Chalet", Aliases: []string{"chalet", "cabin"}},
	{Value: "commercial", Label: "Commercial", Aliases: []string{"commerce", "bureau", "office", "retail"}},
	{Value: "land", Label: "Terrain", Aliases: []string{"terrain", "lot"}},
}

// PropertyQuestions returns the ordered question table for a new property.
func PropertyQuestions() []QuestionSpec {
	return []QuestionSpec{
		{
			FieldID: FieldName,
			Label:   "Nom",
			Prompt:  "Quel nom veux-tu donner à cette propriété? (ex. Duplex Ontario)",
			Parse:   func(raw string) Outcome { return NormalizeText(raw, true, MaxNameLength) },
		},
		{
			FieldID:  FieldAddress,
			Label:    "Adresse",
			Prompt:   "Quelle est l'adresse de la propriété?",
			Optional: true,
			Parse:    func(raw string) Outcome { return NormalizeText(raw, false, MaxAddressLength) },
		},
		{
			FieldID:  FieldCity,
			Label:    "Ville",
			Prompt:   "Dans quelle ville se trouve-t-elle?",
			Optional: true,
			Parse:    func(raw string) Outcome { return NormalizeText(raw, false, MaxCityLength) },
		},
		{
			FieldID:  FieldPropertyType,
			Label:    "Type",
			Prompt:   "De quel type de propriété s'agit-il? (plex, condo, maison, chalet, commercial, terrain)",
			Optional: true,
			Kind:     KindChoice,
			Choices:  PropertyTypes,
			Parse:    func(raw string) Outcome { return NormalizeChoice(raw, PropertyTypes) },
		},
		{
			FieldID:  FieldAcquisitionDate,
			Label:    "Date d'acquisition",
			Prompt:   "Quand l'as-tu achetée? (AAAA-MM-JJ ou JJ/MM/AAAA)",
			Optional: true,
			Kind:     KindDate,
			Parse:    NormalizeDate,
		},
		{
			FieldID:  FieldPurchasePrice,
			Label:    "Prix d'achat",
			Prompt:   "Quel a été le prix d'achat?",
			Optional: true,
			Kind:     KindAmount,
			Parse:    func(raw string) Outcome { return NormalizeAmount(raw, false) },
		},
		{
			FieldID:  FieldCurrentValue,
			Label:    "Valeur actuelle",
			Prompt:   "Quelle est sa valeur actuelle estimée?",
			Optional: true,
			Kind:     KindAmount,
			Parse:    func(raw string) Outcome { return NormalizeAmount(raw, false) },
		},
		{
			FieldID:  FieldNotes,
			Label:    "Notes",
			Prompt:   "Veux-tu ajouter une note?",
			Optional: true,
			Parse:    func(raw string) Outcome { return NormalizeText(raw, false, MaxNotesLength) },
		},
	}
}

// NewPropertyWizard builds a wizard over PropertyQuestions.
func NewPropertyWizard(opts ...Option) *Wizard {
	w, err := New(PropertyQuestions(), append([]Option{WithIntro(PropertyIntro)}, opts...)...)
	if err != nil {
		// The property table is static; a construction error is a bug.
		panic(err)
	}
	return w
}
