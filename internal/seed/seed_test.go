package seed_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cubograf/m/domain"
	"cubograf/m/internal/auth"
	"cubograf/m/internal/seed"
	"cubograf/m/internal/store"
	"cubograf/m/internal/testutil"
)

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()
	st := store.New(testutil.NewDB(t))
	mgr := auth.NewManager(st.Users, st.Sessions, "secret", time.Hour, false)

	require.NoError(t, seed.EnsureAdmin(ctx, st.Users, mgr, "admin", "", zerolog.Nop()))
	users, err := st.Users.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	require.NoError(t, seed.EnsureAdmin(ctx, st.Users, mgr, "admin", "troque", zerolog.Nop()))
	require.NoError(t, seed.EnsureAdmin(ctx, st.Users, mgr, "admin", "outra", zerolog.Nop()))
	users, err = st.Users.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, domain.RoleAdmin, users[0].Role)

	_, _, err = mgr.Login(ctx, "admin", "troque")
	assert.NoError(t, err)
}

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
}

func TestImportLegacy(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	st := store.New(db)
	dir := t.TempDir()

	writeFile(t, dir, seed.OrdersFile, `[
		{"numero":"01","cliente":"Ana","vendedor":"Rui","material":["lona"],"valor_total":1000,"custo":400,"data":"2024-03-10","status":"Finalizada"},
		{"numero":"02","cliente":"","valor_total":10,"data":"2024-03-11"},
		"lixo"
	]`)
	writeFile(t, dir, seed.PurchasesFile, `[{"id":"7","item":"Tinta","fornecedor":"ACME","valor":"150.5","data":"2024-03-02"}]`)
	writeFile(t, dir, seed.PayablesFile, `[{"id":"1","descricao":"Compra #7 - Tinta","valor":150.5,"vencimento":"2024-03-02","status":"Pendente","compra_id":"7"}]`)

	counts, err := seed.ImportLegacy(ctx, db, dir, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, seed.ImportCounts{Orders: 1, Purchases: 1, Payables: 1, Skipped: 2}, counts)

	orders, err := st.Orders.List(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, 500.0, orders[0].DownPayment)
	assert.Equal(t, "status-finalizada", orders[0].StatusClass)

	purchases, err := st.Purchases.List(ctx)
	require.NoError(t, err)
	require.Len(t, purchases, 1)

	payables, err := st.Payables.List(ctx)
	require.NoError(t, err)
	require.Len(t, payables, 1)
	require.NotNil(t, payables[0].PurchaseID)
	assert.Equal(t, purchases[0].ID, *payables[0].PurchaseID)
}

func TestImportLegacyMissingFilesIsEmpty(t *testing.T) {
	counts, err := seed.ImportLegacy(context.Background(), testutil.NewDB(t), t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, seed.ImportCounts{}, counts)
}

func TestImportLegacyRejectsNonArrayFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, seed.OrdersFile, `{"entries":[]}`)
	_, err := seed.ImportLegacy(context.Background(), testutil.NewDB(t), dir, zerolog.Nop())
	assert.Error(t, err)
}
