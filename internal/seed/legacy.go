package seed

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"cubograf/m/domain"
	"cubograf/m/internal/validation"
)

// Files written by the file based version of the system.
const (
	OrdersFile    = "sample_data.json"
	PurchasesFile = "compras.json"
	PayablesFile  = "contas_pagar.json"
)

type legacyOrder struct {
	Client        string                  `json:"cliente"`
	Seller        string                  `json:"vendedor"`
	Material      validation.MaterialList `json:"material"`
	Supplier      string                  `json:"fornecedor"`
	Total         validation.Money        `json:"valor_total"`
	Cost          validation.Money        `json:"custo"`
	PaymentMethod string                  `json:"forma_pagamento"`
	Date          string                  `json:"data"`
	Status        string                  `json:"status"`
}

type legacyPurchase struct {
	ID        validation.Int   `json:"id"`
	Item      string           `json:"item"`
	Supplier  string           `json:"fornecedor"`
	Value     validation.Money `json:"valor"`
	Date      string           `json:"data"`
	Note      string           `json:"observacao"`
	Status    string           `json:"status"`
	Timestamp string           `json:"timestamp"`
}

type legacyPayable struct {
	Description   string           `json:"descricao"`
	Value         validation.Money `json:"valor"`
	DueDate       string           `json:"vencimento"`
	OldDueDate    string           `json:"data_vencimento"`
	Category      string           `json:"categoria"`
	PaymentMethod string           `json:"forma_pagamento"`
	Status        string           `json:"status"`
	Note          string           `json:"observacao"`
	PurchaseID    validation.Int   `json:"compra_id"`
	CreatedAt     string           `json:"data_criacao"`
	CreatedBy     string           `json:"criado_por"`
	PaidAt        string           `json:"data_pagamento"`
	PaidBy        string           `json:"pago_por"`
}

// ImportCounts reports how many records of each kind were imported.
type ImportCounts struct {
	Orders    int
	Purchases int
	Payables  int
	Skipped   int
}

// readEntries decodes a JSON array file entry by entry so one malformed
// entry does not discard the rest. A missing file yields no entries.
func readEntries(path string) ([]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	return entries, nil
}

// ImportLegacy loads orders, purchases and payables from the JSON files in
// dir inside one transaction. Entries that cannot be decoded or miss a
// required field are skipped with a log line. Purchase links of payables
// are remapped to the ids the purchases receive here.
func ImportLegacy(ctx context.Context, db *sqlx.DB, dir string, log zerolog.Logger) (ImportCounts, error) {
	var counts ImportCounts
	now := time.Now().UTC().Format(time.RFC3339)

	orders, err := readEntries(filepath.Join(dir, OrdersFile))
	if err != nil {
		return counts, err
	}
	purchases, err := readEntries(filepath.Join(dir, PurchasesFile))
	if err != nil {
		return counts, err
	}
	payables, err := readEntries(filepath.Join(dir, PayablesFile))
	if err != nil {
		return counts, err
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return counts, errors.Wrap(err, "begin import")
	}
	defer func() { _ = tx.Rollback() }()

	orderStmt, err := tx.PreparexContext(ctx, tx.Rebind(`INSERT INTO orders (
		cliente, vendedor, material, fornecedor, valor_total, custo, valor_entrada, valor_restante,
		valor_estimado_lucro, forma_pagamento, data, status, status_class
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`))
	if err != nil {
		return counts, errors.Wrap(err, "prepare order insert")
	}
	defer orderStmt.Close()

	for i, raw := range orders {
		var lo legacyOrder
		if err := json.Unmarshal(raw, &lo); err != nil {
			log.Warn().Err(err).Int("entry", i).Msg("skipping malformed order")
			counts.Skipped++
			continue
		}
		o, ok := lo.toOrder()
		if !ok {
			log.Warn().Int("entry", i).Msg("skipping incomplete order")
			counts.Skipped++
			continue
		}
		if _, err := orderStmt.ExecContext(ctx, o.Client, o.Seller, o.Materials, o.Supplier, o.Total, o.Cost,
			o.DownPayment, o.Remaining, o.EstimatedProfit, o.PaymentMethod, o.Date, o.Status, o.StatusClass); err != nil {
			return counts, errors.Wrapf(err, "insert order entry %d", i)
		}
		counts.Orders++
	}

	purchaseIDs := map[int]int64{}
	for i, raw := range purchases {
		var lp legacyPurchase
		if err := json.Unmarshal(raw, &lp); err != nil || lp.Item == "" || lp.Value.Normalize() != nil {
			log.Warn().Int("entry", i).Msg("skipping malformed purchase")
			counts.Skipped++
			continue
		}
		created := lp.Timestamp
		if created == "" {
			created = now
		}
		var id int64
		err := tx.QueryRowxContext(ctx, tx.Rebind(`INSERT INTO compras (item, fornecedor, valor, data, observacao, status, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`),
			strings.TrimSpace(lp.Item), strings.TrimSpace(lp.Supplier), lp.Value.Value, lp.Date, lp.Note, lp.Status, created).Scan(&id)
		if err != nil {
			return counts, errors.Wrapf(err, "insert purchase entry %d", i)
		}
		if lp.ID.Provided {
			purchaseIDs[lp.ID.Value] = id
		}
		counts.Purchases++
	}

	for i, raw := range payables {
		var lp legacyPayable
		if err := json.Unmarshal(raw, &lp); err != nil || lp.Description == "" || lp.Value.Normalize() != nil {
			log.Warn().Int("entry", i).Msg("skipping malformed payable")
			counts.Skipped++
			continue
		}
		p := lp.toPayable(now)
		if lp.PurchaseID.Provided {
			if id, ok := purchaseIDs[lp.PurchaseID.Value]; ok {
				p.PurchaseID = &id
			}
		}
		_, err := tx.ExecContext(ctx, tx.Rebind(`INSERT INTO contas_pagar (
			descricao, valor, vencimento, categoria, forma_pagamento, status, observacao, compra_id,
			created_at, criado_por, data_pagamento, pago_por
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
			p.Description, p.Value, p.DueDate, p.Category, p.PaymentMethod, p.Status, p.Note, p.PurchaseID,
			p.CreatedAt, p.CreatedBy, p.PaidAt, p.PaidBy)
		if err != nil {
			return counts, errors.Wrapf(err, "insert payable entry %d", i)
		}
		counts.Payables++
	}

	if err := tx.Commit(); err != nil {
		return counts, errors.Wrap(err, "commit import")
	}
	log.Info().Int("orders", counts.Orders).Int("compras", counts.Purchases).
		Int("contas_pagar", counts.Payables).Int("skipped", counts.Skipped).Msg("legacy data imported")
	return counts, nil
}

func (lo legacyOrder) toOrder() (domain.Order, bool) {
	if strings.TrimSpace(lo.Client) == "" || lo.Date == "" {
		return domain.Order{}, false
	}
	if lo.Total.Normalize() != nil || lo.Cost.Normalize() != nil {
		return domain.Order{}, false
	}
	o := domain.Order{
		Client:        strings.TrimSpace(lo.Client),
		Seller:        strings.TrimSpace(lo.Seller),
		Materials:     lo.Material.Names,
		Supplier:      strings.TrimSpace(lo.Supplier),
		PaymentMethod: lo.PaymentMethod,
		Date:          lo.Date,
	}
	if o.Materials == nil {
		o.Materials = domain.Materials{}
	}
	if o.PaymentMethod == "" {
		o.PaymentMethod = "PIX"
	}
	status := domain.OrderStatus(lo.Status)
	if status == "" {
		status = domain.StatusAwaitingApproval
	}
	o.SetAmounts(lo.Total.Value, lo.Cost.Value)
	o.SetStatus(status)
	return o, true
}

func (lp legacyPayable) toPayable(now string) domain.Payable {
	p := domain.Payable{
		Description:   lp.Description,
		Value:         lp.Value.Value,
		DueDate:       lp.DueDate,
		Category:      lp.Category,
		PaymentMethod: lp.PaymentMethod,
		Status:        domain.PayableStatus(lp.Status),
		Note:          lp.Note,
		CreatedAt:     lp.CreatedAt,
		CreatedBy:     lp.CreatedBy,
		PaidAt:        lp.PaidAt,
		PaidBy:        lp.PaidBy,
	}
	if p.DueDate == "" {
		p.DueDate = lp.OldDueDate
	}
	if p.Status == "" {
		p.Status = domain.PayablePending
	}
	if p.CreatedAt == "" {
		p.CreatedAt = now
	}
	return p
}
