// Package rowstore is a generic table/row client over SQL.
//
// It mirrors the request/response shape of a hosted REST row store: a query
// names one table, narrows it with equality predicates, optionally orders and
// limits it, and then runs exactly one select, insert, update or delete. Rows
// come back as loosely typed maps; callers are expected to convert them into
// typed records once, right after the fetch (see Row).
//
// There are no joins and no multi-statement transactions. Every operation is
// one SQL statement and relies on the database's own single-statement
// atomicity.
//
// Every failure is reported as a *StoreError so callers can tell a failed
// call from an empty result.
package rowstore
