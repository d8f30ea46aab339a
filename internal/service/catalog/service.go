package catalog

import (
	"context"
	"errors"

	"nanoeats/internal/domain"
)

// Service is the read-only catalog accessor: vendor-checked item
// lookups and server-side customization pricing.
type Service struct {
	items   itemRepo
	vendors vendorRepo
}

type itemRepo interface {
	GetByID(ctx context.Context, id string) (*domain.MenuItem, error)
	ListByVendor(ctx context.Context, vendor domain.VendorRef) ([]domain.MenuItem, error)
}

type vendorRepo interface {
	Get(ctx context.Context, ref domain.VendorRef) (*domain.Vendor, error)
}

func New(items itemRepo, vendors vendorRepo) *Service {
	return &Service{items: items, vendors: vendors}
}

// ResolveVendor confirms the claimed vendor exists.
func (s *Service) ResolveVendor(ctx context.Context, ref domain.VendorRef) (*domain.Vendor, error) {
	v, err := s.vendors.Get(ctx, ref)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFoundf("%s not found", ref.Kind)
		}
		return nil, err
	}
	return v, nil
}

// VendorMenu returns the vendor's display projection together with its
// full menu.
func (s *Service) VendorMenu(ctx context.Context, ref domain.VendorRef) (*domain.Vendor, []domain.MenuItem, error) {
	v, err := s.ResolveVendor(ctx, ref)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.items.ListByVendor(ctx, ref)
	if err != nil {
		return nil, nil, err
	}
	return v, items, nil
}

// VendorItem returns the menu item only when its stored vendor matches
// the claim. A mismatch surfaces as not-found so callers cannot probe
// which vendor an item belongs to.
func (s *Service) VendorItem(ctx context.Context, vendor domain.VendorRef, itemID string) (*domain.MenuItem, error) {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFoundf("menu item not found")
		}
		return nil, err
	}
	if item.Vendor != vendor {
		return nil, domain.NotFoundf("menu item not found")
	}
	return item, nil
}

// CustomizationRequest is the client's selection before validation.
// Add-on names are matched against the item definition; prices always
// come from the catalog.
type CustomizationRequest struct {
	SpiceLevel string   `json:"spiceLevel,omitempty"`
	AddOns     []string `json:"addOns,omitempty"`
	Notes      string   `json:"notes,omitempty"`
}

// PriceCustomization validates req against the item and returns the
// priced customization, the per-unit price (base + add-ons) and the
// add-on names that were dropped for not existing on the item.
func (s *Service) PriceCustomization(item *domain.MenuItem, req CustomizationRequest) (domain.Customization, int64, []string, error) {
	if !item.HasSpiceLevel(req.SpiceLevel) {
		return domain.Customization{}, 0, nil, domain.Validationf("spice level %q is not offered for %s", req.SpiceLevel, item.Name)
	}

	cust := domain.Customization{SpiceLevel: req.SpiceLevel, Notes: req.Notes}
	var dropped []string
	for _, name := range req.AddOns {
		addOn, ok := item.AddOnByName(name)
		if !ok {
			dropped = append(dropped, name)
			continue
		}
		cust.AddOns = append(cust.AddOns, addOn)
	}

	return cust, item.Price + cust.AddOnTotal(), dropped, nil
}
