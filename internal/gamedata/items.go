package gamedata

// ItemDef defines a healing consumable and its starting quantity.
type ItemDef struct {
	Name     string `json:"name"`
	Heal     int    `json:"heal"`
	Quantity int    `json:"quantity"`
}

// ItemsFile represents the structure of items.json.
type ItemsFile struct {
	Items []ItemDef `json:"items"`
}

// LoadItems loads item definitions from the embedded items.json file.
func LoadItems() ([]ItemDef, error) {
	file, err := Load[ItemsFile]("items.json")
	if err != nil {
		return nil, err
	}
	return file.Items, nil
}

// MustLoadItems loads item definitions, panicking on error.
func MustLoadItems() []ItemDef {
	items, err := LoadItems()
	if err != nil {
		panic(err)
	}
	return items
}
