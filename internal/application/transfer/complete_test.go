package transfer_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Traslados-api/internal/domain"
	"github.com/jhoicas/Traslados-api/internal/domain/entity"
)

const completerID = "00000000-0000-0000-0000-00000000u002"

func partItem(id, transferID, sku string, qty int64) *entity.TransferItem {
	return &entity.TransferItem{
		ID:         id,
		TransferID: transferID,
		CompanyID:  testCompanyID,
		SKU:        sku,
		IsPart:     true,
		Quantity:   decimal.NewFromInt(qty),
		Status:     entity.TransferStatusPending,
	}
}

func deviceItem(id, transferID, sku, deviceID string) *entity.TransferItem {
	return &entity.TransferItem{
		ID:         id,
		TransferID: transferID,
		CompanyID:  testCompanyID,
		SKU:        sku,
		DeviceID:   &deviceID,
		IsPart:     false,
		Quantity:   decimal.NewFromInt(1),
		Status:     entity.TransferStatusPending,
	}
}

func TestComplete_NoExiste_RetornaNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Complete(context.Background(), testCompanyID, completerID, "no-existe")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, f.ledger.attempts)
}

func TestComplete_OtraEmpresa_RetornaForbidden(t *testing.T) {
	f := newFixture()
	f.withPendingTransfer("tr-1")

	_, err := f.uc.Complete(context.Background(), "otra-empresa", completerID, "tr-1")

	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Empty(t, f.ledger.attempts)
}

func TestComplete_YaCompletado_RetornaConflictSinMovimientos(t *testing.T) {
	f := newFixture()
	tr := f.withPendingTransfer("tr-1", partItem("it-1", "tr-1", "SKU-A", 5))
	tr.Status = entity.TransferStatusCompleted

	_, err := f.uc.Complete(context.Background(), testCompanyID, completerID, "tr-1")

	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Empty(t, f.ledger.attempts)
}

func TestComplete_RegistraParDeMovimientosPorItem(t *testing.T) {
	f := newFixture()
	f.withPendingTransfer("tr-1",
		partItem("it-1", "tr-1", "SKU-A", 5),
		partItem("it-2", "tr-1", "SKU-B", 2),
	)

	out, err := f.uc.Complete(context.Background(), testCompanyID, completerID, "tr-1")

	require.NoError(t, err)
	assert.Equal(t, 4, out.MovementsCreated)
	assert.Equal(t, 2, out.ItemsTransferred)
	assert.True(t, decimal.NewFromInt(7).Equal(out.QuantityTransferred))
	require.Len(t, f.ledger.attempts, 4)

	// Por item: primero la salida (cantidad negativa), luego la entrada.
	salida := f.ledger.attempts[0]
	assert.Equal(t, entity.MovementReasonTransferOut, salida.Reason)
	assert.Equal(t, testWhFrom, salida.WarehouseID)
	assert.True(t, decimal.NewFromInt(-5).Equal(salida.Quantity))
	assert.Equal(t, entity.MovementRefTransfers, salida.RefType)
	assert.Equal(t, "tr-1", salida.RefID)
	assert.True(t, salida.UpdateStock)

	entrada := f.ledger.attempts[1]
	assert.Equal(t, entity.MovementReasonTransferIn, entrada.Reason)
	assert.Equal(t, testWhTo, entrada.WarehouseID)
	assert.True(t, decimal.NewFromInt(5).Equal(entrada.Quantity))
}

func TestComplete_AtribuyeSalidaAlCreadorYEntradaAQuienCompleta(t *testing.T) {
	f := newFixture()
	f.withPendingTransfer("tr-1", partItem("it-1", "tr-1", "SKU-A", 1))

	_, err := f.uc.Complete(context.Background(), testCompanyID, completerID, "tr-1")

	require.NoError(t, err)
	require.Len(t, f.ledger.attempts, 2)
	assert.Equal(t, testUserID, f.ledger.attempts[0].CreatedBy)
	assert.Equal(t, completerID, f.ledger.attempts[1].CreatedBy)
}

func TestComplete_FallaLaSalida_ContinuaConElResto(t *testing.T) {
	f := newFixture()
	f.withPendingTransfer("tr-1",
		partItem("it-1", "tr-1", "SKU-MALO", 5),
		partItem("it-2", "tr-1", "SKU-B", 2),
	)
	f.ledger.failOut["SKU-MALO"] = true

	out, err := f.uc.Complete(context.Background(), testCompanyID, completerID, "tr-1")

	require.NoError(t, err)
	// SKU-MALO: salida fallida, entrada ni se intenta. SKU-B: par completo.
	require.Len(t, f.ledger.attempts, 3)
	assert.Equal(t, 2, out.MovementsCreated)
	assert.Equal(t, 1, out.ItemsTransferred)
	assert.True(t, decimal.NewFromInt(2).Equal(out.QuantityTransferred))

	require.Len(t, out.Items, 2)
	assert.False(t, out.Items[0].OK)
	assert.NotEmpty(t, out.Items[0].Reason)
	assert.True(t, out.Items[1].OK)
}

func TestComplete_FallaLaEntrada_ParIncompletoNoSumaContadores(t *testing.T) {
	f := newFixture()
	f.withPendingTransfer("tr-1", partItem("it-1", "tr-1", "SKU-A", 5))
	f.ledger.failIn["SKU-A"] = true

	out, err := f.uc.Complete(context.Background(), testCompanyID, completerID, "tr-1")

	require.NoError(t, err)
	// La salida sí se persistió: el contador de movimientos la refleja,
	// pero el item no cuenta como trasladado.
	assert.Equal(t, 1, out.MovementsCreated)
	assert.Equal(t, 0, out.ItemsTransferred)
	assert.True(t, out.QuantityTransferred.IsZero())
	require.Len(t, out.Items, 1)
	assert.False(t, out.Items[0].OK)
}

func TestComplete_MarcaElTrasladoComoCompletado(t *testing.T) {
	f := newFixture()
	f.withPendingTransfer("tr-1", partItem("it-1", "tr-1", "SKU-A", 1))

	_, err := f.uc.Complete(context.Background(), testCompanyID, completerID, "tr-1")

	require.NoError(t, err)
	tr := f.repo.transfers["tr-1"]
	assert.Equal(t, entity.TransferStatusCompleted, tr.Status)
	require.NotNil(t, tr.CompletedBy)
	assert.Equal(t, completerID, *tr.CompletedBy)
	assert.NotNil(t, tr.CompletedAt)
}

// El cambio de estado de cabecera e items corre dentro de la transacción del
// runner, no suelto sobre el pool.
func TestComplete_MarcaDentroDeUnaTransaccion(t *testing.T) {
	f := newFixture()
	f.withPendingTransfer("tr-1", partItem("it-1", "tr-1", "SKU-A", 1))

	_, err := f.uc.Complete(context.Background(), testCompanyID, completerID, "tr-1")

	require.NoError(t, err)
	assert.Equal(t, 1, f.tx.runs)
	assert.True(t, f.repo.transfers["tr-1"].IsCompleted())
}

func TestComplete_MarcaCompletadoAunqueTodosLosItemsFallen(t *testing.T) {
	f := newFixture()
	f.withPendingTransfer("tr-1", partItem("it-1", "tr-1", "SKU-MALO", 5))
	f.ledger.failOut["SKU-MALO"] = true

	out, err := f.uc.Complete(context.Background(), testCompanyID, completerID, "tr-1")

	require.NoError(t, err)
	assert.Equal(t, 0, out.ItemsTransferred)
	assert.True(t, f.repo.transfers["tr-1"].IsCompleted())
	assert.Contains(t, out.Message, "0 de 1")
}

func TestComplete_ItemDispositivo_RegistraDosEventos(t *testing.T) {
	f := newFixture()
	f.withPendingTransfer("tr-1", deviceItem("it-1", "tr-1", "SKU-CEL", "dev-1"))

	out, err := f.uc.Complete(context.Background(), testCompanyID, completerID, "tr-1")

	require.NoError(t, err)
	assert.Equal(t, 2, out.DeviceEventsCreated)
	require.Len(t, f.events.outCalls, 1)
	require.Len(t, f.events.inCalls, 1)
	// Salida atribuida al creador, entrada a quien completa
	assert.Equal(t, eventCall{"dev-1", testUserID, "tr-1"}, f.events.outCalls[0])
	assert.Equal(t, eventCall{"dev-1", completerID, "tr-1"}, f.events.inCalls[0])
}

func TestComplete_ItemDeParte_NoRegistraEventosDeDispositivo(t *testing.T) {
	f := newFixture()
	f.withPendingTransfer("tr-1", partItem("it-1", "tr-1", "SKU-A", 3))

	out, err := f.uc.Complete(context.Background(), testCompanyID, completerID, "tr-1")

	require.NoError(t, err)
	assert.Zero(t, out.DeviceEventsCreated)
	assert.Empty(t, f.events.outCalls)
	assert.Empty(t, f.events.inCalls)
}

func TestComplete_ItemDispositivoFallido_NoRegistraEventos(t *testing.T) {
	f := newFixture()
	f.withPendingTransfer("tr-1", deviceItem("it-1", "tr-1", "SKU-CEL", "dev-1"))
	f.ledger.failOut["SKU-CEL"] = true

	out, err := f.uc.Complete(context.Background(), testCompanyID, completerID, "tr-1")

	require.NoError(t, err)
	assert.Zero(t, out.DeviceEventsCreated)
	assert.Empty(t, f.events.outCalls)
	assert.Empty(t, f.events.inCalls)
}

func TestComplete_ErrorDeEventosNoAbortaLaCompletacion(t *testing.T) {
	f := newFixture()
	f.withPendingTransfer("tr-1", deviceItem("it-1", "tr-1", "SKU-CEL", "dev-1"))
	f.events.err = assert.AnError

	out, err := f.uc.Complete(context.Background(), testCompanyID, completerID, "tr-1")

	require.NoError(t, err)
	assert.Equal(t, 1, out.ItemsTransferred)
	assert.Zero(t, out.DeviceEventsCreated)
	assert.True(t, f.repo.transfers["tr-1"].IsCompleted())
}

func TestComplete_SinItems_CompletaVacio(t *testing.T) {
	f := newFixture()
	f.withPendingTransfer("tr-1")

	out, err := f.uc.Complete(context.Background(), testCompanyID, completerID, "tr-1")

	require.NoError(t, err)
	assert.Zero(t, out.MovementsCreated)
	assert.Zero(t, out.ItemsTransferred)
	assert.Empty(t, out.Items)
	assert.True(t, f.repo.transfers["tr-1"].IsCompleted())
}

func TestComplete_ErrorAlMarcar_SePropaga(t *testing.T) {
	f := newFixture()
	f.withPendingTransfer("tr-1", partItem("it-1", "tr-1", "SKU-A", 1))
	f.repo.markErr = assert.AnError

	_, err := f.uc.Complete(context.Background(), testCompanyID, completerID, "tr-1")

	assert.ErrorIs(t, err, assert.AnError)
}
