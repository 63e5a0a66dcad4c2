package state

import (
	"comanda-client/internal/domain"
	"comanda-client/internal/repository"
)

type MenuSnapshot struct {
	Categories []domain.Category
	Items      []domain.MenuItem
	CategoryID int
	Search     string
	Loading    bool
	Error      string
}

// MenuState drives the menu browsing screen: category list plus the item
// list for the selected category/search.
type MenuState struct {
	*holder[MenuSnapshot]
	categories *repository.CategoryRepository
	menu       *repository.MenuRepository
}

func NewMenuState(categories *repository.CategoryRepository, menu *repository.MenuRepository) *MenuState {
	return &MenuState{
		holder:     newHolder(MenuSnapshot{}),
		categories: categories,
		menu:       menu,
	}
}

// Load fetches categories and the item list for the current filter. Two
// sequential calls; the first failure wins.
func (s *MenuState) Load() {
	s.update(func(snap MenuSnapshot) MenuSnapshot {
		snap.Loading = true
		snap.Error = ""
		return snap
	})

	go func() {
		catRes := s.categories.List(s.ctx, true)
		if catRes.IsError() {
			s.update(func(snap MenuSnapshot) MenuSnapshot {
				snap.Loading = false
				snap.Error = catRes.Message()
				return snap
			})
			return
		}

		snap := s.Snapshot()
		itemRes := s.menu.List(s.ctx, repository.MenuFilter{
			CategoryID:    snap.CategoryID,
			AvailableOnly: true,
			Search:        snap.Search,
		})

		s.update(func(snap MenuSnapshot) MenuSnapshot {
			snap.Loading = false
			snap.Categories, _ = catRes.Data()
			if items, ok := itemRes.Data(); ok {
				snap.Items = items
				snap.Error = ""
			} else {
				snap.Error = itemRes.Message()
			}
			return snap
		})
	}()
}

// SelectCategory sets the filter and reloads the item list.
func (s *MenuState) SelectCategory(categoryID int) {
	s.update(func(snap MenuSnapshot) MenuSnapshot {
		snap.CategoryID = categoryID
		return snap
	})
	s.Load()
}

// SetSearch updates the server-side search term and reloads.
func (s *MenuState) SetSearch(term string) {
	s.update(func(snap MenuSnapshot) MenuSnapshot {
		snap.Search = term
		return snap
	})
	s.Load()
}
