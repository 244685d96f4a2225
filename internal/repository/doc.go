// Package repository holds pgx-backed data access for users, posts,
// and the Postgres session store.
package repository
