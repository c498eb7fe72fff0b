// Package processing turns uploaded sales tables into typed, enriched records.
package processing

import (
	"strings"

	"bakery/models"
	"bakery/utils"
)

// SynonymRule lists the accepted input names for one canonical field, in priority order.
type SynonymRule struct {
	Field    models.CanonicalField `yaml:"field" json:"field"`
	Synonyms []string              `yaml:"synonyms" json:"synonyms"`
}

// SynonymTable is the ordered rule set used to resolve input columns.
type SynonymTable []SynonymRule

// DefaultSynonyms returns a fresh copy of the built-in rule table.
func DefaultSynonyms() SynonymTable {
	return SynonymTable{
		{Field: models.FieldDate, Synonyms: []string{"date", "datetime", "day", "sale_date", "transaction_date", "date of sale", "sales date"}},
		{Field: models.FieldItem, Synonyms: []string{"item", "product", "product_name", "item_name", "item_type", "product type", "product name", "item name"}},
		{Field: models.FieldQuantity, Synonyms: []string{"quantity", "qty", "units", "units_sold", "quantity_sold", "units sold", "quantity sold"}},
		{Field: models.FieldRevenue, Synonyms: []string{"revenue", "sales", "amount", "sales_amount", "income", "total sales", "sales amount", "total revenue"}},
		{Field: models.FieldCogs, Synonyms: []string{"cogs", "cost", "cost_of_goods_sold", "costs", "expense", "cost price", "cost of goods sold"}},
	}
}

// Rule returns the synonyms registered for field.
func (t SynonymTable) Rule(field models.CanonicalField) (SynonymRule, bool) {
	for _, r := range t {
		if r.Field == field {
			return r, true
		}
	}
	return SynonymRule{}, false
}

// AcceptedNames renders the synonyms of field for user-facing messages.
func (t SynonymTable) AcceptedNames(field models.CanonicalField) string {
	r, ok := t.Rule(field)
	if !ok {
		return string(field)
	}
	return strings.Join(r.Synonyms, ", ")
}

// Resolution maps each canonical field to the input column that carries it.
type Resolution struct {
	Columns map[models.CanonicalField]string `json:"columns"`
	Missing []models.CanonicalField          `json:"missing,omitempty"`
}

// Column returns the input header resolved for field.
func (r Resolution) Column(field models.CanonicalField) (string, bool) {
	c, ok := r.Columns[field]
	return c, ok
}

// Complete reports whether every required field was resolved.
func (r Resolution) Complete() bool {
	return len(r.Missing) == 0
}

// Resolve maps input headers onto canonical fields. Exact matches are
// claimed first for every field; fields still unresolved then fall back to
// substring containment. A header is claimed at most once.
//
// Substring matching can produce false positives: a column named "costume"
// resolves as cogs through "cost".
func Resolve(headers []string, table SynonymTable) Resolution {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = utils.NormalizeHeader(h)
	}

	res := Resolution{Columns: make(map[models.CanonicalField]string, len(table))}
	claimed := make([]bool, len(headers))

	match := func(rule SynonymRule, accept func(header, synonym string) bool) bool {
		for _, syn := range rule.Synonyms {
			syn = utils.NormalizeHeader(syn)
			if syn == "" {
				continue
			}
			for i, h := range normalized {
				if claimed[i] || !accept(h, syn) {
					continue
				}
				claimed[i] = true
				res.Columns[rule.Field] = headers[i]
				return true
			}
		}
		return false
	}

	exact := func(h, syn string) bool { return h == syn }
	for _, rule := range table {
		match(rule, exact)
	}
	for _, rule := range table {
		if _, ok := res.Columns[rule.Field]; ok {
			continue
		}
		if !match(rule, strings.Contains) {
			res.Missing = append(res.Missing, rule.Field)
		}
	}

	return res
}
