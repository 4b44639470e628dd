package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"august/internal/domain"
	"august/internal/pagination"
)

const schema = `
CREATE TABLE IF NOT EXISTS customers (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	email       TEXT NOT NULL UNIQUE,
	street      TEXT NOT NULL,
	city        TEXT NOT NULL,
	state       TEXT NOT NULL,
	postal_code TEXT NOT NULL,
	country     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS categories (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL UNIQUE,
	description TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS products (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL UNIQUE,
	description TEXT NOT NULL,
	price       INTEGER NOT NULL,
	stock       INTEGER NOT NULL CHECK (stock >= 0),
	category_id TEXT NOT NULL REFERENCES categories(id)
);
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id, id);
CREATE INDEX IF NOT EXISTS idx_products_price    ON products(price, id);

CREATE TABLE IF NOT EXISTS orders (
	id          TEXT PRIMARY KEY,
	customer_id TEXT NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
	created_at  INTEGER NOT NULL,
	status      TEXT NOT NULL,
	total       INTEGER NOT NULL DEFAULT 0,
	payment     TEXT NOT NULL DEFAULT '{}'
);
-- у покупателя не больше одной корзины
CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_cart ON orders(customer_id) WHERE status = 'cart';
CREATE INDEX IF NOT EXISTS idx_orders_customer ON orders(customer_id, created_at, id);

CREATE TABLE IF NOT EXISTS order_items (
	order_id   TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
	product_id TEXT NOT NULL REFERENCES products(id),
	quantity   INTEGER NOT NULL CHECK (quantity > 0),
	PRIMARY KEY (order_id, product_id)
);
`

// Store хранилище документов поверх SQLite: таблица на коллекцию,
// вторичные индексы для выборок, сериализуемые транзакции записи
type Store struct {
	db *sql.DB
}

// Open открывает хранилище и применяет схему.
// _txlock=immediate: каждая транзакция сразу берёт блокировку записи,
// конкурентные транзакции выполняются в некотором последовательном порядке.
func Open(path string) (*Store, error) {
	dsn := "file:" + path + "?_txlock=immediate&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ensure interfaces
var (
	_ CustomerRepository = (*Store)(nil)
	_ CategoryRepository = (*Store)(nil)
	_ ProductRepository  = (*Store)(nil)
	_ OrderRepository    = (*Store)(nil)
	_ TxManager          = (*Store)(nil)
)

// transaction-aware querying: внутри WithTransaction контекст несёт *sql.Tx,
// и все операции репозитория идут через него
type txKey struct{}

type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) q(ctx context.Context) queryer {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return s.db
}

// WithTransaction выполняет fn в одной атомарной единице; ошибка из fn
// откатывает все изменения
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		// already inside a transaction, just run
		return fn(ctx)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return mapSQLiteErr(err)
	}
	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return mapSQLiteErr(err)
	}
	return nil
}

// mapSQLiteErr переводит коды SQLite в ошибки репозитория
func mapSQLiteErr(err error) error {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return err
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return fmt.Errorf("%w: %v", ErrAlreadyExists, err)
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY, sqlite3.SQLITE_CONSTRAINT_CHECK, sqlite3.SQLITE_CONSTRAINT:
		return fmt.Errorf("%w: %v", ErrConflict, err)
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}

func toMillis(t time.Time) int64   { return t.UTC().UnixMilli() }
func fromMillis(v int64) time.Time { return time.UnixMilli(v).UTC() }

// CustomerRepository

func (s *Store) Create(ctx context.Context, c *domain.Customer) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err := s.q(ctx).ExecContext(ctx,
		`INSERT INTO customers (id, name, email, street, city, state, postal_code, country)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Email,
		c.Address.Street, c.Address.City, c.Address.State, c.Address.PostalCode, c.Address.Country)
	return mapSQLiteErr(err)
}

const customerCols = `id, name, email, street, city, state, postal_code, country`

func scanCustomer(row interface{ Scan(...any) error }) (*domain.Customer, error) {
	var c domain.Customer
	err := row.Scan(&c.ID, &c.Name, &c.Email,
		&c.Address.Street, &c.Address.City, &c.Address.State, &c.Address.PostalCode, &c.Address.Country)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	row := s.q(ctx).QueryRowContext(ctx, `SELECT `+customerCols+` FROM customers WHERE id = ?`, id)
	return scanCustomer(row)
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	row := s.q(ctx).QueryRowContext(ctx, `SELECT `+customerCols+` FROM customers WHERE email = ?`, email)
	return scanCustomer(row)
}

func (s *Store) Update(ctx context.Context, c *domain.Customer) error {
	res, err := s.q(ctx).ExecContext(ctx,
		`UPDATE customers SET name = ?, email = ?, street = ?, city = ?, state = ?, postal_code = ?, country = ?
		 WHERE id = ?`,
		c.Name, c.Email,
		c.Address.Street, c.Address.City, c.Address.State, c.Address.PostalCode, c.Address.Country,
		c.ID)
	if err != nil {
		return mapSQLiteErr(err)
	}
	return requireAffected(res)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.q(ctx).ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id)
	if err != nil {
		return mapSQLiteErr(err)
	}
	return requireAffected(res)
}

func (s *Store) DeleteAllCustomers(ctx context.Context) error {
	_, err := s.q(ctx).ExecContext(ctx, `DELETE FROM customers`)
	return mapSQLiteErr(err)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CategoryRepository

func (s *Store) CreateCategory(ctx context.Context, c *domain.Category) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err := s.q(ctx).ExecContext(ctx,
		`INSERT INTO categories (id, name, description) VALUES (?, ?, ?)`,
		c.ID, c.Name, c.Description)
	return mapSQLiteErr(err)
}

func (s *Store) CategoryByName(ctx context.Context, name string) (*domain.Category, error) {
	var c domain.Category
	err := s.q(ctx).QueryRowContext(ctx,
		`SELECT id, name, description FROM categories WHERE name = ?`, name).
		Scan(&c.ID, &c.Name, &c.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) CategoryNames(ctx context.Context) ([]string, error) {
	rows, err := s.q(ctx).QueryContext(ctx, `SELECT name FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	names := make([]string, 0)
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// ProductRepository

const productCols = `p.id, p.name, p.description, p.price, p.stock, c.id, c.name, c.description`

const productFrom = ` FROM products p JOIN categories c ON c.id = p.category_id`

func scanProduct(row interface{ Scan(...any) error }) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock,
		&p.Category.ID, &p.Category.Name, &p.Category.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) CreateProduct(ctx context.Context, p *domain.Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	_, err := s.q(ctx).ExecContext(ctx,
		`INSERT INTO products (id, name, description, price, stock, category_id) VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Description, p.Price, p.Stock, p.Category.ID)
	return mapSQLiteErr(err)
}

func (s *Store) ProductByID(ctx context.Context, id string) (*domain.Product, error) {
	row := s.q(ctx).QueryRowContext(ctx, `SELECT `+productCols+productFrom+` WHERE p.id = ?`, id)
	return scanProduct(row)
}

func (s *Store) ProductByName(ctx context.Context, name string) (*domain.Product, error) {
	row := s.q(ctx).QueryRowContext(ctx, `SELECT `+productCols+productFrom+` WHERE p.name = ?`, name)
	return scanProduct(row)
}

func (s *Store) UpdateProduct(ctx context.Context, p *domain.Product) error {
	res, err := s.q(ctx).ExecContext(ctx,
		`UPDATE products SET name = ?, description = ?, price = ?, stock = ?, category_id = ? WHERE id = ?`,
		p.Name, p.Description, p.Price, p.Stock, p.Category.ID, p.ID)
	if err != nil {
		return mapSQLiteErr(err)
	}
	return requireAffected(res)
}

// AdjustStock прибавляет delta к остатку; CHECK (stock >= 0) в схеме —
// последний рубеж, бизнес-проверка делается до вызова
func (s *Store) AdjustStock(ctx context.Context, id string, delta int64) error {
	res, err := s.q(ctx).ExecContext(ctx,
		`UPDATE products SET stock = stock + ? WHERE id = ?`, delta, id)
	if err != nil {
		return mapSQLiteErr(err)
	}
	return requireAffected(res)
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	res, err := s.q(ctx).ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return mapSQLiteErr(err)
	}
	return requireAffected(res)
}

func (s *Store) DeleteAllProducts(ctx context.Context) error {
	_, err := s.q(ctx).ExecContext(ctx, `DELETE FROM products`)
	return mapSQLiteErr(err)
}

// курсоры кодируют фильтр и позицию последней выданной строки,
// поэтому токен сам полностью определяет следующую страницу

type productCursor struct {
	Category     string `json:"c,omitempty"`
	LastCategory string `json:"lc,omitempty"`
	LastID       string `json:"id"`
	Size         int    `json:"n"`
}

type searchCursor struct {
	Min       int64  `json:"min"`
	Max       int64  `json:"max"`
	LastPrice int64  `json:"lp"`
	LastID    string `json:"id"`
	Size      int    `json:"n"`
}

type orderCursor struct {
	Customer    string `json:"c"`
	LastCreated int64  `json:"lt"`
	LastID      string `json:"id"`
	Size        int    `json:"n"`
}

// ListProducts страница товаров: без фильтра — в порядке (категория, id),
// с фильтром по категории — в порядке id внутри категории
func (s *Store) ListProducts(ctx context.Context, q ProductListQuery) (*pagination.Page[domain.Product], error) {
	cur := productCursor{Category: q.Category, Size: q.PageSize}
	if q.After != "" {
		cur = productCursor{}
		if err := pagination.DecodeToken(q.After, &cur); err != nil {
			return nil, err
		}
		if cur.Size < 1 {
			return nil, pagination.ErrBadToken
		}
	}

	var (
		rows *sql.Rows
		err  error
	)
	switch {
	case cur.Category != "" && cur.LastID != "":
		rows, err = s.q(ctx).QueryContext(ctx,
			`SELECT `+productCols+productFrom+` WHERE c.name = ? AND p.id > ? ORDER BY p.id LIMIT ?`,
			cur.Category, cur.LastID, cur.Size+1)
	case cur.Category != "":
		rows, err = s.q(ctx).QueryContext(ctx,
			`SELECT `+productCols+productFrom+` WHERE c.name = ? ORDER BY p.id LIMIT ?`,
			cur.Category, cur.Size+1)
	case cur.LastID != "":
		rows, err = s.q(ctx).QueryContext(ctx,
			`SELECT `+productCols+productFrom+` WHERE (c.name, p.id) > (?, ?) ORDER BY c.name, p.id LIMIT ?`,
			cur.LastCategory, cur.LastID, cur.Size+1)
	default:
		rows, err = s.q(ctx).QueryContext(ctx,
			`SELECT `+productCols+productFrom+` ORDER BY c.name, p.id LIMIT ?`, cur.Size+1)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products, err := collectProducts(rows)
	if err != nil {
		return nil, err
	}

	page := &pagination.Page[domain.Product]{Data: products}
	if len(products) > cur.Size {
		page.Data = products[:cur.Size]
		last := page.Data[len(page.Data)-1]
		token, err := pagination.EncodeToken(productCursor{
			Category:     cur.Category,
			LastCategory: last.Category.Name,
			LastID:       last.ID,
			Size:         cur.Size,
		})
		if err != nil {
			return nil, err
		}
		page.After = &token
	}
	return page, nil
}

// SearchProducts страница товаров в диапазоне цены [min, max],
// строго по возрастанию цены
func (s *Store) SearchProducts(ctx context.Context, q ProductSearchQuery) (*pagination.Page[domain.Product], error) {
	cur := searchCursor{Min: q.MinPrice, Max: q.MaxPrice, Size: q.PageSize}
	if q.After != "" {
		cur = searchCursor{}
		if err := pagination.DecodeToken(q.After, &cur); err != nil {
			return nil, err
		}
		if cur.Size < 1 {
			return nil, pagination.ErrBadToken
		}
	}

	var (
		rows *sql.Rows
		err  error
	)
	if cur.LastID != "" {
		rows, err = s.q(ctx).QueryContext(ctx,
			`SELECT `+productCols+productFrom+
				` WHERE p.price >= ? AND p.price <= ? AND (p.price, p.id) > (?, ?) ORDER BY p.price, p.id LIMIT ?`,
			cur.Min, cur.Max, cur.LastPrice, cur.LastID, cur.Size+1)
	} else {
		rows, err = s.q(ctx).QueryContext(ctx,
			`SELECT `+productCols+productFrom+
				` WHERE p.price >= ? AND p.price <= ? ORDER BY p.price, p.id LIMIT ?`,
			cur.Min, cur.Max, cur.Size+1)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products, err := collectProducts(rows)
	if err != nil {
		return nil, err
	}

	page := &pagination.Page[domain.Product]{Data: products}
	if len(products) > cur.Size {
		page.Data = products[:cur.Size]
		last := page.Data[len(page.Data)-1]
		token, err := pagination.EncodeToken(searchCursor{
			Min:       cur.Min,
			Max:       cur.Max,
			LastPrice: last.Price,
			LastID:    last.ID,
			Size:      cur.Size,
		})
		if err != nil {
			return nil, err
		}
		page.After = &token
	}
	return page, nil
}

func collectProducts(rows *sql.Rows) ([]domain.Product, error) {
	products := make([]domain.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

// OrderRepository

func (s *Store) CreateOrder(ctx context.Context, o *domain.Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	payment, err := marshalPayment(o.Payment)
	if err != nil {
		return err
	}
	if _, err := s.q(ctx).ExecContext(ctx,
		`INSERT INTO orders (id, customer_id, created_at, status, total, payment) VALUES (?, ?, ?, ?, ?, ?)`,
		o.ID, o.Customer.ID, toMillis(o.CreatedAt), string(o.Status), o.Total, payment); err != nil {
		return mapSQLiteErr(err)
	}
	for _, it := range o.Items {
		if err := s.UpsertItem(ctx, o.ID, it.Product.ID, it.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) OrderByID(ctx context.Context, id string) (*domain.Order, error) {
	return s.loadOrder(ctx, `WHERE o.id = ?`, id)
}

func (s *Store) CartByCustomer(ctx context.Context, customerID string) (*domain.Order, error) {
	return s.loadOrder(ctx, `WHERE o.customer_id = ? AND o.status = 'cart'`, customerID)
}

func (s *Store) loadOrder(ctx context.Context, where string, arg any) (*domain.Order, error) {
	row := s.q(ctx).QueryRowContext(ctx,
		`SELECT o.id, o.created_at, o.status, o.total, o.payment, `+customerColsPrefixed+
			` FROM orders o JOIN customers cu ON cu.id = o.customer_id `+where, arg)
	o, err := scanOrder(row)
	if err != nil {
		return nil, err
	}
	o.Items, err = s.orderItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	return o, nil
}

const customerColsPrefixed = `cu.id, cu.name, cu.email, cu.street, cu.city, cu.state, cu.postal_code, cu.country`

func scanOrder(row interface{ Scan(...any) error }) (*domain.Order, error) {
	var (
		o       domain.Order
		created int64
		payment string
	)
	err := row.Scan(&o.ID, &created, &o.Status, &o.Total, &payment,
		&o.Customer.ID, &o.Customer.Name, &o.Customer.Email,
		&o.Customer.Address.Street, &o.Customer.Address.City, &o.Customer.Address.State,
		&o.Customer.Address.PostalCode, &o.Customer.Address.Country)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	o.CreatedAt = fromMillis(created)
	if o.Payment, err = unmarshalPayment(payment); err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *Store) orderItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	rows, err := s.q(ctx).QueryContext(ctx,
		`SELECT oi.quantity, `+productCols+
			` FROM order_items oi JOIN products p ON p.id = oi.product_id JOIN categories c ON c.id = p.category_id
			 WHERE oi.order_id = ? ORDER BY oi.rowid`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]domain.OrderItem, 0)
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.Quantity,
			&it.Product.ID, &it.Product.Name, &it.Product.Description, &it.Product.Price, &it.Product.Stock,
			&it.Product.Category.ID, &it.Product.Category.Name, &it.Product.Category.Description); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *Store) UpdateOrder(ctx context.Context, o *domain.Order) error {
	payment, err := marshalPayment(o.Payment)
	if err != nil {
		return err
	}
	res, err := s.q(ctx).ExecContext(ctx,
		`UPDATE orders SET status = ?, total = ?, payment = ? WHERE id = ?`,
		string(o.Status), o.Total, payment, o.ID)
	if err != nil {
		return mapSQLiteErr(err)
	}
	return requireAffected(res)
}

// UpsertItem добавляет позицию или наращивает количество существующей
func (s *Store) UpsertItem(ctx context.Context, orderID, productID string, quantity int64) error {
	_, err := s.q(ctx).ExecContext(ctx,
		`INSERT INTO order_items (order_id, product_id, quantity) VALUES (?, ?, ?)
		 ON CONFLICT (order_id, product_id) DO UPDATE SET quantity = quantity + excluded.quantity`,
		orderID, productID, quantity)
	return mapSQLiteErr(err)
}

// ListOrdersByCustomer страница заказов покупателя в порядке создания
func (s *Store) ListOrdersByCustomer(ctx context.Context, q OrderListQuery) (*pagination.Page[domain.Order], error) {
	cur := orderCursor{Customer: q.CustomerID, Size: q.PageSize}
	if q.After != "" {
		cur = orderCursor{}
		if err := pagination.DecodeToken(q.After, &cur); err != nil {
			return nil, err
		}
		if cur.Size < 1 {
			return nil, pagination.ErrBadToken
		}
	}

	var (
		rows *sql.Rows
		err  error
	)
	base := `SELECT o.id, o.created_at, o.status, o.total, o.payment, ` + customerColsPrefixed +
		` FROM orders o JOIN customers cu ON cu.id = o.customer_id WHERE o.customer_id = ?`
	if cur.LastID != "" {
		rows, err = s.q(ctx).QueryContext(ctx,
			base+` AND (o.created_at, o.id) > (?, ?) ORDER BY o.created_at, o.id LIMIT ?`,
			cur.Customer, cur.LastCreated, cur.LastID, cur.Size+1)
	} else {
		rows, err = s.q(ctx).QueryContext(ctx,
			base+` ORDER BY o.created_at, o.id LIMIT ?`, cur.Customer, cur.Size+1)
	}
	if err != nil {
		return nil, err
	}
	orders := make([]domain.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	page := &pagination.Page[domain.Order]{Data: orders}
	if len(orders) > cur.Size {
		page.Data = orders[:cur.Size]
		last := page.Data[len(page.Data)-1]
		token, err := pagination.EncodeToken(orderCursor{
			Customer:    cur.Customer,
			LastCreated: toMillis(last.CreatedAt),
			LastID:      last.ID,
			Size:        cur.Size,
		})
		if err != nil {
			return nil, err
		}
		page.After = &token
	}
	for i := range page.Data {
		items, err := s.orderItems(ctx, page.Data[i].ID)
		if err != nil {
			return nil, err
		}
		page.Data[i].Items = items
	}
	return page, nil
}

func (s *Store) DeleteAllOrders(ctx context.Context) error {
	if _, err := s.q(ctx).ExecContext(ctx, `DELETE FROM order_items`); err != nil {
		return mapSQLiteErr(err)
	}
	_, err := s.q(ctx).ExecContext(ctx, `DELETE FROM orders`)
	return mapSQLiteErr(err)
}

func marshalPayment(p map[string]string) (string, error) {
	if p == nil {
		return "{}", nil
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func unmarshalPayment(raw string) (map[string]string, error) {
	p := make(map[string]string)
	if raw == "" {
		return p, nil
	}
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, err
	}
	return p, nil
}
