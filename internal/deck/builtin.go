package deck

import "github.com/lingot-dev/lingot/pkg/models"

// Builtin returns the embedded starter deck, used when no deck is configured
// or nothing valid could be loaded. Spanish to English, a handful of everyday
// categories.
func Builtin() []models.Card {
	cards := make([]models.Card, len(builtinCards))
	copy(cards, builtinCards)
	return cards
}

var builtinCards = []models.Card{
	{Term: "hola", Translation: "hello", Category: "greetings",
		Example: "¡Hola! ¿Cómo estás?", ExampleTranslation: "Hello! How are you?"},
	{Term: "buenos días", Translation: "good morning", Category: "greetings"},
	{Term: "buenas noches", Translation: "good night", Category: "greetings"},
	{Term: "gracias", Translation: "thank you", Category: "greetings",
		Example: "Muchas gracias por tu ayuda.", ExampleTranslation: "Thank you very much for your help."},
	{Term: "por favor", Translation: "please", Category: "greetings"},

	{Term: "el pan", Translation: "bread", Category: "food"},
	{Term: "la manzana", Translation: "apple", Category: "food"},
	{Term: "el agua", Translation: "water", Category: "food",
		Example: "Un vaso de agua, por favor.", ExampleTranslation: "A glass of water, please."},
	{Term: "la cena", Translation: "dinner", Category: "food"},
	{Term: "desayunar", Translation: "to have breakfast", Category: "food"},

	{Term: "el tren", Translation: "train", Category: "travel",
		Example: "El tren sale a las ocho.", ExampleTranslation: "The train leaves at eight."},
	{Term: "el billete", Translation: "ticket", Category: "travel"},
	{Term: "la estación", Translation: "station", Category: "travel"},
	{Term: "¿dónde está?", Translation: "where is it?", Category: "travel"},
	{Term: "a la derecha", Translation: "to the right", Category: "travel"},

	{Term: "uno", Translation: "one", Category: "numbers"},
	{Term: "dos", Translation: "two", Category: "numbers"},
	{Term: "tres", Translation: "three", Category: "numbers"},
	{Term: "diez", Translation: "ten", Category: "numbers"},
	{Term: "cien", Translation: "one hundred", Category: "numbers"},
}
