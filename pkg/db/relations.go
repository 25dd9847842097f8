package db

import (
	"context"
	"fmt"

	"github.com/angelmondragon/talesbyhand-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/talesbyhand-backend/pkg/errors"
	"gorm.io/gorm"
)

// Relation describes one foreign key and what happens to the child rows when
// the referenced parent row is deleted.
type Relation struct {
	Parent   string
	Child    string
	Column   string
	OnDelete enums.ReferentialAction
}

var relations = []Relation{
	{Parent: "regions", Child: "products", Column: "region_id", OnDelete: enums.ReferentialActionRestrict},
	{Parent: "artisans", Child: "products", Column: "artisan_id", OnDelete: enums.ReferentialActionSetNull},
	{Parent: "products", Child: "product_media", Column: "product_id", OnDelete: enums.ReferentialActionCascade},
	{Parent: "products", Child: "cart_items", Column: "product_id", OnDelete: enums.ReferentialActionCascade},
	{Parent: "carts", Child: "cart_items", Column: "cart_id", OnDelete: enums.ReferentialActionCascade},
	{Parent: "users", Child: "carts", Column: "user_id", OnDelete: enums.ReferentialActionCascade},
}

// Relations returns a copy of the relationship registry.
func Relations() []Relation {
	out := make([]Relation, len(relations))
	copy(out, relations)
	return out
}

// RelationsFor returns the relations whose parent is table.
func RelationsFor(table string) []Relation {
	var out []Relation
	for _, rel := range relations {
		if rel.Parent == table {
			out = append(out, rel)
		}
	}
	return out
}

// RelationFor looks up the policy for a specific parent/child/column triple.
func RelationFor(parent, child, column string) (Relation, bool) {
	for _, rel := range relations {
		if rel.Parent == parent && rel.Child == child && rel.Column == column {
			return rel, true
		}
	}
	return Relation{}, false
}

// DeleteRow deletes one row by id after applying every registered policy on
// its dependents. It must run inside a transaction: a RESTRICT hit returns a
// conflict error after earlier cascades may already have executed.
func DeleteRow(ctx context.Context, tx *gorm.DB, table string, id any) error {
	tx = tx.WithContext(ctx)
	rels := RelationsFor(table)

	// Restrict checks first so nothing is mutated when the delete is blocked.
	for _, rel := range rels {
		if rel.OnDelete != enums.ReferentialActionRestrict {
			continue
		}
		var count int64
		if err := tx.Table(rel.Child).Where(rel.Column+" = ?", id).Count(&count).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("check %s references", rel.Child))
		}
		if count > 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("%s is referenced by %d %s", table, count, rel.Child)).
				WithDetails(map[string]any{"table": rel.Child, "column": rel.Column, "count": count})
		}
	}

	for _, rel := range rels {
		switch rel.OnDelete {
		case enums.ReferentialActionSetNull:
			if err := tx.Table(rel.Child).Where(rel.Column+" = ?", id).Update(rel.Column, nil).Error; err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("null %s.%s", rel.Child, rel.Column))
			}
		case enums.ReferentialActionCascade:
			childIDs, err := pluckIDs(tx, rel, id)
			if err != nil {
				return err
			}
			for _, childID := range childIDs {
				if err := DeleteRow(ctx, tx, rel.Child, childID); err != nil {
					return err
				}
			}
		case enums.ReferentialActionRestrict:
		default:
			return pkgerrors.New(pkgerrors.CodeInternal, fmt.Sprintf("unknown referential action %q", rel.OnDelete))
		}
	}

	res := tx.Exec("DELETE FROM "+table+" WHERE id = ?", id)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, res.Error, fmt.Sprintf("delete %s", table))
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("%s row not found", table))
	}
	return nil
}

func pluckIDs(tx *gorm.DB, rel Relation, parentID any) ([]any, error) {
	rows, err := tx.Table(rel.Child).Select("id").Where(rel.Column+" = ?", parentID).Rows()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("load %s ids", rel.Child))
	}
	defer rows.Close()

	var ids []any
	for rows.Next() {
		var id any
		if err := rows.Scan(&id); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("scan %s id", rel.Child))
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
