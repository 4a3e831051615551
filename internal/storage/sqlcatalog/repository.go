package sqlcatalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/AnthonyGillesRudolfo/Storefront-Order-Simulator/internal/catalog"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS storefronts (
		slug TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		display_name TEXT NOT NULL,
		game_title TEXT NOT NULL,
		logo TEXT NOT NULL,
		hero_image TEXT NOT NULL,
		tagline TEXT NOT NULL,
		highlight_slogan TEXT NOT NULL,
		summary TEXT NOT NULL,
		company_name TEXT NOT NULL,
		contact_email TEXT NOT NULL,
		support_channel TEXT NOT NULL,
		storefront_url TEXT NOT NULL,
		primary_color TEXT NOT NULL,
		user_identifier_label TEXT NOT NULL,
		user_identifier_hint TEXT NOT NULL,
		payment_methods TEXT NOT NULL,
		features TEXT NOT NULL,
		legal_links TEXT NOT NULL,
		filters TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		store_slug TEXT NOT NULL REFERENCES storefronts(slug) ON DELETE CASCADE,
		id TEXT NOT NULL,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		category TEXT NOT NULL,
		price BIGINT NOT NULL,
		currency TEXT NOT NULL,
		base_amount BIGINT NOT NULL,
		bonus_amount BIGINT NOT NULL,
		description TEXT NOT NULL,
		icon TEXT NOT NULL,
		game_item_id TEXT NOT NULL,
		limited BOOLEAN NOT NULL,
		subscription BOOLEAN NOT NULL,
		promotion TEXT,
		PRIMARY KEY (store_slug, id)
	)`,
}

const storeColumns = `slug, display_name, game_title, logo, hero_image, tagline, highlight_slogan, summary,
	company_name, contact_email, support_channel, storefront_url, primary_color,
	user_identifier_label, user_identifier_hint, payment_methods, features, legal_links, filters`

const productColumns = `store_slug, id, name, category, price, currency, base_amount, bonus_amount,
	description, icon, game_item_id, limited, subscription, promotion`

// Repository is a catalog.Source over *sql.DB. Queries are written with ?
// placeholders and rebound for PostgreSQL.
type Repository struct {
	db     *sql.DB
	driver string
}

func NewRepository(db *sql.DB, driver string) *Repository {
	return &Repository{db: db, driver: driver}
}

func (r *Repository) q(query string) string {
	if r.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, c := range query {
		if c == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

// Migrate creates the tables when missing.
func (r *Repository) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// Replace swaps the whole catalog for stores in one transaction. Stores that
// fail validation are rejected before anything is written.
func (r *Repository) Replace(ctx context.Context, stores []catalog.Storefront) (err error) {
	for _, s := range stores {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("invalid storefront: %w", err)
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM products`); err != nil {
		return fmt.Errorf("clear products: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM storefronts`); err != nil {
		return fmt.Errorf("clear storefronts: %w", err)
	}

	for i, s := range stores {
		if err = r.insertStore(ctx, tx, i, s); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *Repository) insertStore(ctx context.Context, tx *sql.Tx, position int, s catalog.Storefront) error {
	methods, features, links, filters, err := encodeStore(s)
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.Slug, err)
	}
	_, err = tx.ExecContext(ctx, r.q(`INSERT INTO storefronts (position, `+storeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		position, s.Slug, s.DisplayName, s.GameTitle, s.Logo, s.HeroImage, s.Tagline, s.HighlightSlogan, s.Summary,
		s.CompanyName, s.ContactEmail, s.SupportChannel, s.StorefrontURL, s.PrimaryColor,
		s.UserIdentifierLabel, s.UserIdentifierHint, methods, features, links, filters)
	if err != nil {
		return fmt.Errorf("insert storefront %s: %w", s.Slug, err)
	}

	for i, p := range s.Products {
		var promo sql.NullString
		if p.Promotion != nil {
			b, err := json.Marshal(p.Promotion)
			if err != nil {
				return fmt.Errorf("encode promotion %s: %w", p.ID, err)
			}
			promo = sql.NullString{String: string(b), Valid: true}
		}
		_, err = tx.ExecContext(ctx, r.q(`INSERT INTO products (position, `+productColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
			i, s.Slug, p.ID, p.Name, p.Category, p.Price, p.Currency, p.BaseAmount, p.BonusAmount,
			p.Description, p.Icon, p.GameItemID, p.Limited, p.Subscription, promo)
		if err != nil {
			return fmt.Errorf("insert product %s/%s: %w", s.Slug, p.ID, err)
		}
	}
	return nil
}

// Lookup returns one storefront with its products in listing order.
func (r *Repository) Lookup(ctx context.Context, slug string) (catalog.Storefront, error) {
	row := r.db.QueryRowContext(ctx, r.q(`SELECT `+storeColumns+` FROM storefronts WHERE slug = ?`), slug)
	s, err := scanStore(row)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.Storefront{}, catalog.ErrStoreNotFound
	}
	if err != nil {
		return catalog.Storefront{}, fmt.Errorf("lookup storefront %s: %w", slug, err)
	}

	products, err := r.products(ctx, `WHERE store_slug = ?`, slug)
	if err != nil {
		return catalog.Storefront{}, err
	}
	s.Products = products[slug]
	return s, nil
}

// List returns every storefront in seed order.
func (r *Repository) List(ctx context.Context) ([]catalog.Storefront, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+storeColumns+` FROM storefronts ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("list storefronts: %w", err)
	}
	defer rows.Close()

	var stores []catalog.Storefront
	for rows.Next() {
		s, err := scanStore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan storefront: %w", err)
		}
		stores = append(stores, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list storefronts: %w", err)
	}

	products, err := r.products(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range stores {
		stores[i].Products = products[stores[i].Slug]
	}
	return stores, nil
}

func (r *Repository) products(ctx context.Context, where string, args ...any) (map[string][]catalog.Product, error) {
	rows, err := r.db.QueryContext(ctx, r.q(`SELECT `+productColumns+` FROM products `+where+` ORDER BY store_slug, position`), args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]catalog.Product)
	for rows.Next() {
		var (
			slug  string
			p     catalog.Product
			promo sql.NullString
		)
		if err := rows.Scan(&slug, &p.ID, &p.Name, &p.Category, &p.Price, &p.Currency, &p.BaseAmount, &p.BonusAmount,
			&p.Description, &p.Icon, &p.GameItemID, &p.Limited, &p.Subscription, &promo); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		if promo.Valid {
			p.Promotion = new(catalog.Promotion)
			if err := json.Unmarshal([]byte(promo.String), p.Promotion); err != nil {
				return nil, fmt.Errorf("decode promotion %s: %w", p.ID, err)
			}
		}
		out[slug] = append(out[slug], p)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanStore(row scanner) (catalog.Storefront, error) {
	var (
		s                                 catalog.Storefront
		methods, features, links, filters string
	)
	err := row.Scan(&s.Slug, &s.DisplayName, &s.GameTitle, &s.Logo, &s.HeroImage, &s.Tagline, &s.HighlightSlogan, &s.Summary,
		&s.CompanyName, &s.ContactEmail, &s.SupportChannel, &s.StorefrontURL, &s.PrimaryColor,
		&s.UserIdentifierLabel, &s.UserIdentifierHint, &methods, &features, &links, &filters)
	if err != nil {
		return catalog.Storefront{}, err
	}
	for _, f := range []struct {
		raw string
		dst any
	}{
		{methods, &s.PaymentMethods},
		{features, &s.Features},
		{links, &s.LegalLinks},
		{filters, &s.Filters},
	} {
		if err := json.Unmarshal([]byte(f.raw), f.dst); err != nil {
			return catalog.Storefront{}, fmt.Errorf("decode %s: %w", s.Slug, err)
		}
	}
	return s, nil
}

func encodeStore(s catalog.Storefront) (methods, features, links, filters string, err error) {
	enc := func(v any) string {
		if err != nil {
			return ""
		}
		var b []byte
		b, err = json.Marshal(v)
		return string(b)
	}
	methods = enc(s.PaymentMethods)
	features = enc(s.Features)
	links = enc(s.LegalLinks)
	filters = enc(s.Filters)
	return methods, features, links, filters, err
}
