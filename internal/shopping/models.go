package shopping

// Item is one material on the shopping list and the number of planned dishes
// that need it.
type Item struct {
	Material string `json:"material"`
	Count    int    `json:"count"`
}
