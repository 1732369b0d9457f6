package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/parceldesk/postal-service/internal/entities"
	"github.com/parceldesk/postal-service/pkg/trm"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"
)

var shipmentColumns = []string{
	"id", "status", "cost", "weight", "shipping_method", "expedited",
	"sender_id", "from_address_id", "to_address_id", "created_at",
}

type postgresRepo struct {
	db *sqlx.DB
	qb sq.StatementBuilderType
}

func NewPostgresRepo(db *sqlx.DB) *postgresRepo {
	return &postgresRepo{
		db: db,
		qb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *postgresRepo) SaveAddress(ctx context.Context, a entities.Address) (entities.Address, error) {
	query, args := r.qb.Insert("addresses").
		Columns("name", "street", "city", "state", "zip", "country").
		Values(a.Name, a.Street, a.City, a.State, a.Zip, a.Country).
		Suffix("RETURNING id").
		MustSql()

	if err := r.getContext(ctx, &a.ID, query, args...); err != nil {
		return entities.Address{}, fmt.Errorf("failed to save address: %w", err)
	}
	return a, nil
}

// SaveShipment inserts the shipment row. From and To must already carry
// their generated address ids.
func (r *postgresRepo) SaveShipment(ctx context.Context, s entities.Shipment) (entities.Shipment, error) {
	query, args := r.qb.Insert("shipments").
		Columns("status", "cost", "weight", "shipping_method", "expedited",
			"sender_id", "from_address_id", "to_address_id").
		Values(s.Status.String(), s.Cost, s.Weight, s.Method.Name, s.Method.Expedited,
			nullInt64(s.SenderID), s.From.ID, s.To.ID).
		Suffix("RETURNING id, created_at").
		MustSql()

	var row struct {
		ID        int64     `db:"id"`
		CreatedAt time.Time `db:"created_at"`
	}
	if err := r.getContext(ctx, &row, query, args...); err != nil {
		return entities.Shipment{}, fmt.Errorf("failed to save shipment: %w", err)
	}

	s.ID = row.ID
	s.CreatedAt = row.CreatedAt
	return s, nil
}

func (r *postgresRepo) SaveLabel(ctx context.Context, l entities.Label) (entities.Label, error) {
	query, args := r.qb.Insert("labels").
		Columns("content", "from_address_id", "to_address_id", "shipment_id").
		Values(l.Content, l.From.ID, l.To.ID, l.ShipmentID).
		Suffix("RETURNING id").
		MustSql()

	if err := r.getContext(ctx, &l.ID, query, args...); err != nil {
		return entities.Label{}, fmt.Errorf("failed to save label: %w", err)
	}
	return l, nil
}

func (r *postgresRepo) GetShipmentByID(ctx context.Context, id int64) (entities.Shipment, error) {
	query, args := r.qb.Select(shipmentColumns...).
		From("shipments").
		Where(sq.Eq{"id": id}).
		MustSql()

	var shipment Shipment
	err := r.getContext(ctx, &shipment, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Shipment{}, entities.ErrShipmentNotFound
	}
	if err != nil {
		return entities.Shipment{}, fmt.Errorf("failed to get shipment: %w", err)
	}

	result, err := r.assemble(ctx, []Shipment{shipment})
	if err != nil {
		return entities.Shipment{}, err
	}
	return result[0], nil
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id int64, status entities.Status) error {
	query, args := r.qb.Update("shipments").
		Set("status", status.String()).
		Where(sq.Eq{"id": id}).
		MustSql()

	res, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	if affected == 0 {
		return entities.ErrShipmentNotFound
	}
	return nil
}

func (r *postgresRepo) SearchShipments(ctx context.Context, term string) ([]entities.Shipment, error) {
	pattern := "%" + term + "%"

	cols := make([]string, len(shipmentColumns))
	for i, c := range shipmentColumns {
		cols[i] = "s." + c
	}

	query, args := r.qb.Select(cols...).
		From("shipments s").
		Join("addresses af ON af.id = s.from_address_id").
		Join("addresses at ON at.id = s.to_address_id").
		Where(sq.Or{
			sq.ILike{"af.name": pattern},
			sq.ILike{"at.name": pattern},
		}).
		OrderBy("s.created_at DESC").
		MustSql()

	var shipments []Shipment
	if err := r.selectContext(ctx, &shipments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to search shipments: %w", err)
	}
	return r.assemble(ctx, shipments)
}

func (r *postgresRepo) ListShipments(ctx context.Context) ([]entities.Shipment, error) {
	return r.list(ctx, nil)
}

func (r *postgresRepo) ListShipmentsByUser(ctx context.Context, userID int64) ([]entities.Shipment, error) {
	return r.list(ctx, sq.Eq{"sender_id": userID})
}

func (r *postgresRepo) list(ctx context.Context, pred any) ([]entities.Shipment, error) {
	q := r.qb.Select(shipmentColumns...).
		From("shipments").
		OrderBy("created_at DESC")
	if pred != nil {
		q = q.Where(pred)
	}
	query, args := q.MustSql()

	var shipments []Shipment
	if err := r.selectContext(ctx, &shipments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select shipments: %w", err)
	}
	return r.assemble(ctx, shipments)
}

// assemble loads the addresses and labels referenced by the shipment
// rows and builds full entities. The two lookups are independent, so
// they run concurrently.
func (r *postgresRepo) assemble(ctx context.Context, shipments []Shipment) ([]entities.Shipment, error) {
	if len(shipments) == 0 {
		return []entities.Shipment{}, nil
	}

	addressIDs := make([]int64, 0, len(shipments)*2)
	shipmentIDs := make([]int64, 0, len(shipments))
	for _, s := range shipments {
		addressIDs = append(addressIDs, s.FromAddressID, s.ToAddressID)
		shipmentIDs = append(shipmentIDs, s.ID)
	}

	var (
		addresses []Address
		labels    []Label
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		query, args := r.qb.Select("id", "name", "street", "city", "state", "zip", "country").
			From("addresses").
			Where(sq.Eq{"id": addressIDs}).
			MustSql()
		if err := r.selectContext(gctx, &addresses, query, args...); err != nil {
			return fmt.Errorf("failed to select addresses: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		query, args := r.qb.Select("id", "content", "from_address_id", "to_address_id", "shipment_id").
			From("labels").
			Where(sq.Eq{"shipment_id": shipmentIDs}).
			MustSql()
		if err := r.selectContext(gctx, &labels, query, args...); err != nil {
			return fmt.Errorf("failed to select labels: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	addressMap := make(map[int64]Address, len(addresses))
	for _, a := range addresses {
		addressMap[a.ID] = a
	}
	labelMap := make(map[int64]Label, len(labels))
	for _, l := range labels {
		labelMap[l.ShipmentID] = l
	}

	result := make([]entities.Shipment, 0, len(shipments))
	for _, s := range shipments {
		result = append(result, ShipmentToEntity(
			s, addressMap[s.FromAddressID], addressMap[s.ToAddressID], labelMap[s.ID],
		))
	}
	return result, nil
}

func (r *postgresRepo) execContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if tx := trm.ExtractTx(ctx); tx != nil {
		return tx.ExecContext(ctx, query, args...)
	}
	return r.db.ExecContext(ctx, query, args...)
}

func (r *postgresRepo) getContext(ctx context.Context, dest any, query string, args ...any) error {
	if tx := trm.ExtractTx(ctx); tx != nil {
		return tx.GetContext(ctx, dest, query, args...)
	}
	return r.db.GetContext(ctx, dest, query, args...)
}

func (r *postgresRepo) selectContext(ctx context.Context, dest any, query string, args ...any) error {
	if tx := trm.ExtractTx(ctx); tx != nil {
		return tx.SelectContext(ctx, dest, query, args...)
	}
	return r.db.SelectContext(ctx, dest, query, args...)
}
