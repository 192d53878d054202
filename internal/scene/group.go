package scene

import (
	"fmt"

	"github.com/inamate/drawboard/internal/document"
	"github.com/inamate/drawboard/internal/history"
	"github.com/inamate/drawboard/internal/typeid"
)

// GroupElements links the elements under a new group id. Members of other
// groups are moved into the new one.
func (s *Scene) GroupElements(ids []string) (string, *history.Entry, error) {
	els, err := s.elementsByID(ids)
	if err != nil {
		return "", nil, err
	}
	if len(els) < 2 {
		return "", nil, ErrGroupSize
	}
	group := typeid.NewGroupID()
	entry, err := s.UpdateElements(ids, map[string]any{document.FieldGroup: group}, true)
	if err != nil {
		return "", nil, err
	}
	s.dissolveOrphans(entry)
	return group, entry, nil
}

// UngroupElements clears the group of every element sharing a group with
// one of the given elements.
func (s *Scene) UngroupElements(ids []string) (*history.Entry, error) {
	els, err := s.elementsByID(ids)
	if err != nil {
		return nil, err
	}
	p := s.Page()
	groups := map[string]bool{}
	for _, el := range els {
		if el.Group != "" {
			groups[el.Group] = true
		}
	}
	var members []string
	for _, el := range p.Elements {
		if groups[el.Group] {
			members = append(members, el.ID)
		}
	}
	if len(members) == 0 {
		return nil, nil
	}
	entry, err := s.UpdateElements(members, map[string]any{document.FieldGroup: ""}, true)
	if err != nil {
		return nil, err
	}
	if groups[p.ActiveGroup] {
		p.ActiveGroup = ""
	}
	return entry, nil
}

// dissolveOrphans clears groups that the update left with one member and
// folds those changes into entry.
func (s *Scene) dissolveOrphans(entry *history.Entry) {
	if entry == nil {
		return
	}
	p := s.Page()
	counts := map[string][]*document.Element{}
	for _, el := range p.Elements {
		if el.Group != "" {
			counts[el.Group] = append(counts[el.Group], el)
		}
	}
	for _, members := range counts {
		if len(members) != 1 {
			continue
		}
		el := members[0]
		entry.Changes = append(entry.Changes, history.Change{
			ID:         el.ID,
			PrevValues: map[string]any{document.FieldGroup: el.Group},
			NewValues:  map[string]any{document.FieldGroup: ""},
		})
		el.Group = ""
	}
	s.repairActiveGroup()
}

// EnterGroup makes group the active group of the page.
func (s *Scene) EnterGroup(group string) error {
	p := s.Page()
	if !p.HasGroup(group) {
		return fmt.Errorf("enter group %s: %w", group, document.ErrNotFound)
	}
	p.ActiveGroup = group
	return nil
}

// ExitGroup leaves the active group, if any.
func (s *Scene) ExitGroup() {
	s.Page().ActiveGroup = ""
}

func (s *Scene) ActiveGroup() string {
	return s.Page().ActiveGroup
}
