package ops

import (
	"context"
	"slices"

	"github.com/ishfaqbuilds/commandghost/internal/command"
	"github.com/ishfaqbuilds/commandghost/internal/errors"
	"github.com/ishfaqbuilds/commandghost/internal/logger"
	"github.com/ishfaqbuilds/commandghost/internal/settings"
)

// collection is the in-memory working copy of one library.
// raws and ids are parallel; categories holds explicitly created names.
type collection struct {
	kind       command.Kind
	raws       []string
	ids        []string
	categories []string
}

// loadCollection reads a library from one snapshot. Missing, short, or
// duplicated ids (records written by another tool) are regenerated and
// persisted under s.Update so that ids handed out by a listing stay valid.
// The library is re-read under the lock first, so a concurrent repair or
// write wins over this one.
func loadCollection(ctx context.Context, s settings.Settings, kind command.Kind) (*collection, error) {
	c, err := readCollection(ctx, s, kind)
	if err != nil {
		return nil, err
	}
	if idsConsistent(c.raws, c.ids) {
		return c, nil
	}

	err = s.Update(ctx, func(tx settings.Settings) error {
		fresh, err := readCollection(ctx, tx, kind)
		if err != nil {
			return err
		}
		c = fresh
		if idsConsistent(c.raws, c.ids) {
			return nil
		}
		if err := c.regenerateIDs(); err != nil {
			return err
		}
		logger.Debug("regenerated record ids", "library", kind, "records", len(c.raws))
		return tx.SetStringList(ctx, kind.IDsKey(), c.ids)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func readCollection(ctx context.Context, s settings.Settings, kind command.Kind) (*collection, error) {
	lists, err := s.GetStringLists(ctx, kind.SettingsKey(), kind.IDsKey(), kind.CategoriesKey())
	if err != nil {
		return nil, err
	}
	return &collection{
		kind:       kind,
		raws:       lists[kind.SettingsKey()],
		ids:        lists[kind.IDsKey()],
		categories: lists[kind.CategoriesKey()],
	}, nil
}

func idsConsistent(raws, ids []string) bool {
	if len(raws) != len(ids) {
		return false
	}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if !command.ValidID(id) {
			return false
		}
		if _, dup := seen[id]; dup {
			return false
		}
		seen[id] = struct{}{}
	}
	return true
}

func (c *collection) regenerateIDs() error {
	c.ids = make([]string, len(c.raws))
	for i := range c.raws {
		id, err := command.NewID()
		if err != nil {
			return errors.NewInternal(err)
		}
		c.ids[i] = id
	}
	return nil
}

// items decodes the collection, keeping raw positions and ids.
func (c *collection) items() ([]Item, []command.Skipped) {
	items := make([]Item, 0, len(c.raws))
	var skipped []command.Skipped
	for i, raw := range c.raws {
		r, ok := command.Decode(raw, c.kind)
		if !ok {
			skipped = append(skipped, command.Skipped{Index: i, Raw: raw})
			continue
		}
		r.ID = c.ids[i]
		items = append(items, Item{Index: i, Record: r})
	}
	if len(skipped) > 0 {
		logger.Debug("skipped malformed records", "key", c.kind.SettingsKey(), "count", len(skipped))
	}
	return items, skipped
}

// records returns only the decoded records.
func (c *collection) records() []command.Record {
	items, _ := c.items()
	out := make([]command.Record, len(items))
	for i, it := range items {
		out[i] = it.Record
	}
	return out
}

// resolve maps an address to a raw position.
func (c *collection) resolve(addr *Address) (int, error) {
	if addr.ByID {
		i := slices.Index(c.ids, addr.ID)
		if i < 0 {
			return 0, errors.NewNotFound(addr.ID)
		}
		return i, nil
	}
	if addr.Index < 0 || addr.Index >= len(c.raws) {
		return 0, errors.NewIndexOutOfRange(addr.Index, len(c.raws))
	}
	return addr.Index, nil
}

// add appends an encoded record with a fresh id and returns its position.
func (c *collection) add(r command.Record) (int, string, error) {
	id, err := command.NewID()
	if err != nil {
		return 0, "", errors.NewInternal(err)
	}
	c.raws = append(c.raws, command.Encode(r))
	c.ids = append(c.ids, id)
	return len(c.raws) - 1, id, nil
}

func (c *collection) remove(i int) {
	c.raws = slices.Delete(c.raws, i, i+1)
	c.ids = slices.Delete(c.ids, i, i+1)
}

// categoryNames returns the sorted, unique union of record categories and
// explicitly created ones.
func (c *collection) categoryNames() []string {
	set := make(map[string]struct{})
	for _, r := range c.records() {
		set[r.Category] = struct{}{}
	}
	for _, name := range c.categories {
		if name != "" {
			set[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Parts of a collection written by save.
const (
	recordsPart    = 1 << iota // records and their parallel ids
	categoriesPart             // explicitly created categories
)

// save persists the given parts in a single atomic write, so records and
// ids can never be stored out of step.
func (c *collection) save(ctx context.Context, s settings.Settings, parts int) error {
	lists := make(map[string][]string, 3)
	if parts&recordsPart != 0 {
		lists[c.kind.SettingsKey()] = c.raws
		lists[c.kind.IDsKey()] = c.ids
	}
	if parts&categoriesPart != 0 {
		lists[c.kind.CategoriesKey()] = c.categories
	}
	if len(lists) == 0 {
		return nil
	}
	return s.SetStringLists(ctx, lists)
}
