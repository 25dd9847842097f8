package models

// All lists every persisted model in dependency order.
func All() []any {
	return []any{
		&Region{},
		&Artisan{},
		&Product{},
		&ProductMedia{},
		&User{},
		&Cart{},
		&CartItem{},
	}
}
