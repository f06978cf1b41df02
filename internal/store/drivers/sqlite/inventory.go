package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/stocklane/stocklane/internal/domain"
)

type productsRepo struct {
	db dbtx
}

const productColumns = `id, name, description, price, stock, stock_threshold,
	is_active, created_at, updated_at`

func (r *productsRepo) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock,
			&p.StockThreshold, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *productsRepo) GetProductByID(ctx context.Context, id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ?`, id,
	).Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock,
		&p.StockThreshold, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.Product{}, mapNotFound(err)
	}
	return p, nil
}

func (r *productsRepo) CreateProduct(ctx context.Context, p domain.Product) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO products (id, name, description, price, stock, stock_threshold,
			is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Description, p.Price, p.Stock, p.StockThreshold,
		p.IsActive, now, now,
	)
	return err
}

func (r *productsRepo) UpdateProduct(ctx context.Context, p domain.Product) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE products SET name = ?, description = ?, price = ?, stock = ?,
			stock_threshold = ?, is_active = ?, updated_at = ?
		 WHERE id = ?`,
		p.Name, p.Description, p.Price, p.Stock, p.StockThreshold, p.IsActive,
		time.Now().UTC(), p.ID,
	)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (r *productsRepo) DeleteProduct(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

type storesRepo struct {
	db dbtx
}

func (r *storesRepo) ListStores(ctx context.Context) ([]domain.Store, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, location, created_at, updated_at
		 FROM stores ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stores []domain.Store
	for rows.Next() {
		var s domain.Store
		if err := rows.Scan(&s.ID, &s.Name, &s.Location, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		stores = append(stores, s)
	}
	return stores, rows.Err()
}

func (r *storesRepo) GetStoreByID(ctx context.Context, id string) (domain.Store, error) {
	var s domain.Store
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, location, created_at, updated_at FROM stores WHERE id = ?`, id,
	).Scan(&s.ID, &s.Name, &s.Location, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return domain.Store{}, mapNotFound(err)
	}
	return s, nil
}

func (r *storesRepo) CreateStore(ctx context.Context, s domain.Store) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO stores (id, name, location, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		s.ID, s.Name, s.Location, now, now,
	)
	return err
}

func (r *storesRepo) UpdateStore(ctx context.Context, s domain.Store) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE stores SET name = ?, location = ?, updated_at = ? WHERE id = ?`,
		s.Name, s.Location, time.Now().UTC(), s.ID,
	)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (r *storesRepo) DeleteStore(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM stores WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

type salesRepo struct {
	db dbtx
}

func (r *salesRepo) ListSalesByStore(ctx context.Context, storeID string) ([]domain.Sale, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, store_id, product_id, quantity, total, sold_at
		 FROM sales WHERE store_id = ? ORDER BY sold_at DESC, id DESC`, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []domain.Sale
	for rows.Next() {
		var s domain.Sale
		if err := rows.Scan(&s.ID, &s.StoreID, &s.ProductID, &s.Quantity, &s.Total, &s.SoldAt); err != nil {
			return nil, err
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}

func (r *salesRepo) CreateSale(ctx context.Context, s domain.Sale) error {
	soldAt := s.SoldAt
	if soldAt.IsZero() {
		soldAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sales (id, store_id, product_id, quantity, total, sold_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		s.ID, s.StoreID, s.ProductID, s.Quantity, s.Total, soldAt,
	)
	return err
}

func checkAffected(res sql.Result) error {
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return mapNotFound(sql.ErrNoRows)
	}
	return nil
}
