package rowstore

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/dmitrijs2005/skdtracker/internal/dbx"
)

var identifierRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Client issues row store requests through a dbx.Querier.
type Client struct {
	db dbx.Querier
}

func New(db dbx.Querier) *Client {
	return &Client{db: db}
}

// From starts a request against table.
func (c *Client) From(table string) *Query {
	return &Query{client: c, table: table}
}

type predicate struct {
	column string
	op     string
	value  any
}

type ordering struct {
	column string
	desc   bool
}

// Query accumulates predicates for a single request. Builder methods modify
// the receiver and return it for chaining.
type Query struct {
	client *Client
	table  string
	preds  []predicate
	orders []ordering
	limit  int
}

// Eq keeps rows where column equals value.
func (q *Query) Eq(column string, value any) *Query {
	q.preds = append(q.preds, predicate{column: column, op: "=", value: value})
	return q
}

// Neq keeps rows where column is not equal to value. Rows with NULL in column
// are not kept.
func (q *Query) Neq(column string, value any) *Query {
	q.preds = append(q.preds, predicate{column: column, op: "<>", value: value})
	return q
}

// IsNull keeps rows where column is NULL.
func (q *Query) IsNull(column string) *Query {
	q.preds = append(q.preds, predicate{column: column, op: "IS NULL"})
	return q
}

// Order sorts by column; several calls sort by several columns in call order.
func (q *Query) Order(column string, desc bool) *Query {
	q.orders = append(q.orders, ordering{column: column, desc: desc})
	return q
}

// Limit caps the number of returned rows. Zero or less means no limit.
func (q *Query) Limit(n int) *Query {
	q.limit = n
	return q
}

// Select returns the matching rows. With no columns every column is returned.
func (q *Query) Select(ctx context.Context, columns ...string) ([]Row, error) {
	query, args, err := q.selectSQL(columns)
	if err != nil {
		return nil, q.fail("select", err)
	}

	rows, err := q.query(ctx, query, args)
	if err != nil {
		return nil, q.fail("select", err)
	}
	return rows, nil
}

// Insert stores row and returns it as stored, including store-assigned
// columns such as created_at.
func (q *Query) Insert(ctx context.Context, row Row) (Row, error) {
	query, args, err := q.insertSQL(row)
	if err != nil {
		return nil, q.fail("insert", err)
	}

	rows, err := q.query(ctx, query, args)
	if err != nil {
		return nil, q.fail("insert", err)
	}
	if len(rows) == 0 {
		return nil, q.fail("insert", ErrNothingReturned)
	}
	return rows[0], nil
}

// Update sets values on the matching rows and returns them as stored.
func (q *Query) Update(ctx context.Context, values Row) ([]Row, error) {
	query, args, err := q.updateSQL(values)
	if err != nil {
		return nil, q.fail("update", err)
	}

	rows, err := q.query(ctx, query, args)
	if err != nil {
		return nil, q.fail("update", err)
	}
	return rows, nil
}

// Delete removes the matching rows and returns how many were removed.
func (q *Query) Delete(ctx context.Context) (int64, error) {
	query, args, err := q.deleteSQL()
	if err != nil {
		return 0, q.fail("delete", err)
	}

	res, err := q.client.db.ExecContext(ctx, q.client.db.Rebind(query), args...)
	if err != nil {
		return 0, q.fail("delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, q.fail("delete", err)
	}
	return n, nil
}

func (q *Query) fail(op string, err error) error {
	return &StoreError{Op: op, Table: q.table, Err: err}
}

func (q *Query) query(ctx context.Context, query string, args []any) ([]Row, error) {
	rs, err := q.client.db.QueryxContext(ctx, q.client.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rs.Close()

	out := make([]Row, 0)
	for rs.Next() {
		r := Row{}
		if err := rs.MapScan(r); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rs.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (q *Query) selectSQL(columns []string) (string, []any, error) {
	if err := checkIdentifiers(append([]string{q.table}, columns...)...); err != nil {
		return "", nil, err
	}

	cols := "*"
	if len(columns) > 0 {
		cols = strings.Join(columns, ", ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", cols, q.table)

	args, err := q.writeWhere(&b)
	if err != nil {
		return "", nil, err
	}

	if len(q.orders) > 0 {
		parts := make([]string, 0, len(q.orders))
		for _, o := range q.orders {
			if err := checkIdentifiers(o.column); err != nil {
				return "", nil, err
			}
			dir := "ASC"
			if o.desc {
				dir = "DESC"
			}
			parts = append(parts, o.column+" "+dir)
		}
		b.WriteString(" ORDER BY " + strings.Join(parts, ", "))
	}

	if q.limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", q.limit)
	}

	return b.String(), args, nil
}

func (q *Query) insertSQL(row Row) (string, []any, error) {
	if len(row) == 0 {
		return "", nil, fmt.Errorf("insert: empty row")
	}
	keys := sortedKeys(row)
	if err := checkIdentifiers(append([]string{q.table}, keys...)...); err != nil {
		return "", nil, err
	}

	marks := make([]string, len(keys))
	args := make([]any, len(keys))
	for i, k := range keys {
		marks[i] = "?"
		args[i] = row[k]
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING *",
		q.table, strings.Join(keys, ", "), strings.Join(marks, ", "))
	return query, args, nil
}

func (q *Query) updateSQL(values Row) (string, []any, error) {
	if len(q.preds) == 0 {
		return "", nil, ErrUnfiltered
	}
	if len(values) == 0 {
		return "", nil, fmt.Errorf("update: no values")
	}
	keys := sortedKeys(values)
	if err := checkIdentifiers(append([]string{q.table}, keys...)...); err != nil {
		return "", nil, err
	}

	sets := make([]string, len(keys))
	args := make([]any, 0, len(keys)+len(q.preds))
	for i, k := range keys {
		sets[i] = k + " = ?"
		args = append(args, values[k])
	}

	var b strings.Builder
	fmt.Fprintf(&b, "UPDATE %s SET %s", q.table, strings.Join(sets, ", "))
	whereArgs, err := q.writeWhere(&b)
	if err != nil {
		return "", nil, err
	}
	b.WriteString(" RETURNING *")

	return b.String(), append(args, whereArgs...), nil
}

func (q *Query) deleteSQL() (string, []any, error) {
	if len(q.preds) == 0 {
		return "", nil, ErrUnfiltered
	}
	if err := checkIdentifiers(q.table); err != nil {
		return "", nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "DELETE FROM %s", q.table)
	args, err := q.writeWhere(&b)
	if err != nil {
		return "", nil, err
	}
	return b.String(), args, nil
}

func (q *Query) writeWhere(b *strings.Builder) ([]any, error) {
	if len(q.preds) == 0 {
		return nil, nil
	}

	parts := make([]string, 0, len(q.preds))
	args := make([]any, 0, len(q.preds))
	for _, p := range q.preds {
		if err := checkIdentifiers(p.column); err != nil {
			return nil, err
		}
		if p.op == "IS NULL" {
			parts = append(parts, p.column+" IS NULL")
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s ?", p.column, p.op))
		args = append(args, p.value)
	}
	b.WriteString(" WHERE " + strings.Join(parts, " AND "))
	return args, nil
}

func checkIdentifiers(names ...string) error {
	for _, n := range names {
		if !identifierRe.MatchString(n) {
			return fmt.Errorf("%w: %q", ErrInvalidIdentifier, n)
		}
	}
	return nil
}

func sortedKeys(r Row) []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
