package stubserver

import "comanda-client/internal/domain"

// Seed loads a small fixture menu and two accounts (staff@example.com /
// client@example.com, password "password") so the client has something to
// talk to out of the box.
func Seed(store *Store, bcryptCost int) error {
	hash, err := hashPassword("password", bcryptCost)
	if err != nil {
		return err
	}
	if _, err := store.CreateUser("staff", "staff@example.com", hash, domain.RoleAdminStaff); err != nil {
		return err
	}
	if _, err := store.CreateUser("client", "client@example.com", hash, domain.RoleClient); err != nil {
		return err
	}

	mains, err := store.CreateCategory(domain.Category{Name: "Mains", Description: "Hot dishes", Active: true})
	if err != nil {
		return err
	}
	drinks, err := store.CreateCategory(domain.Category{Name: "Drinks", Active: true})
	if err != nil {
		return err
	}

	items := []domain.MenuItem{
		{CategoryID: mains.ID, Name: "Margherita Pizza", Price: 9.50, Available: true},
		{CategoryID: mains.ID, Name: "Beef Burger", Price: 11.00, Available: true},
		{CategoryID: mains.ID, Name: "Caesar Salad", Price: 8.25, Available: false},
		{CategoryID: drinks.ID, Name: "Espresso", Price: 2.50, Available: true},
		{CategoryID: drinks.ID, Name: "Fresh Lemonade", Price: 3.75, Available: true},
	}
	for _, item := range items {
		if _, err := store.CreateMenuItem(item); err != nil {
			return err
		}
	}
	return nil
}
