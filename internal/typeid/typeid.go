package typeid

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

const (
	PrefixUser     = "user"
	PrefixDocument = "board"
	PrefixPage     = "page"
	PrefixElement  = "el"
	PrefixGroup    = "grp"
	PrefixAsset    = "asset"
	PrefixLibrary  = "lib"
	PrefixItem     = "item"
)

func New(prefix string) string {
	id := typeid.MustGenerate(prefix)
	return id.String()
}

func NewUserID() string     { return New(PrefixUser) }
func NewDocumentID() string { return New(PrefixDocument) }
func NewPageID() string     { return New(PrefixPage) }
func NewElementID() string  { return New(PrefixElement) }
func NewGroupID() string    { return New(PrefixGroup) }
func NewAssetID() string    { return New(PrefixAsset) }
func NewLibraryID() string  { return New(PrefixLibrary) }
func NewItemID() string     { return New(PrefixItem) }

func Validate(id, expectedPrefix string) error {
	parsed, err := typeid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid typeid %q: %w", id, err)
	}
	if parsed.Prefix() != expectedPrefix {
		return fmt.Errorf("expected prefix %q but got %q in id %q", expectedPrefix, parsed.Prefix(), id)
	}
	return nil
}
