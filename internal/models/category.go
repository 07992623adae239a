package models

import "fmt"

// AssetCategory is the closed set of market entity kinds a roster slot can hold.
type AssetCategory string

const (
	CategoryManufacturer AssetCategory = "MANUFACTURER"
	CategoryStrain       AssetCategory = "STRAIN"
	CategoryProduct      AssetCategory = "PRODUCT"
	CategoryOutlet       AssetCategory = "OUTLET"
	CategoryBrand        AssetCategory = "BRAND"
)

// AllCategories lists every category in draft-board order.
func AllCategories() []AssetCategory {
	return []AssetCategory{
		CategoryManufacturer,
		CategoryStrain,
		CategoryProduct,
		CategoryOutlet,
		CategoryBrand,
	}
}

// ParseAssetCategory converts a stored string into an AssetCategory.
// It is total over the closed set; anything else is an error at the boundary
// so business logic never has to re-check category strings.
func ParseAssetCategory(s string) (AssetCategory, error) {
	switch AssetCategory(s) {
	case CategoryManufacturer, CategoryStrain, CategoryProduct, CategoryOutlet, CategoryBrand:
		return AssetCategory(s), nil
	default:
		return "", fmt.Errorf("unknown asset category %q", s)
	}
}

// DraftMode defines how turn order advances between rounds.
type DraftMode string

const (
	DraftModeSnake  DraftMode = "SNAKE"
	DraftModeLinear DraftMode = "LINEAR"
)

// ParseDraftMode converts a stored string into a DraftMode.
func ParseDraftMode(s string) (DraftMode, error) {
	switch DraftMode(s) {
	case DraftModeSnake, DraftModeLinear:
		return DraftMode(s), nil
	default:
		return "", fmt.Errorf("unknown draft mode %q", s)
	}
}

// RosterSlot says which kind of roster position a pick is aimed at.
type RosterSlot string

const (
	SlotDedicated RosterSlot = "DEDICATED"
	SlotFlex      RosterSlot = "FLEX"
)
