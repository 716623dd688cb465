package transfer_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Traslados-api/internal/application/ledger"
	"github.com/jhoicas/Traslados-api/internal/application/transfer"
	"github.com/jhoicas/Traslados-api/internal/domain/entity"
	"github.com/jhoicas/Traslados-api/internal/domain/repository"
	"github.com/jhoicas/Traslados-api/pkg/logger"
)

func stockKey(companyID, warehouseID, sku string) string {
	return companyID + "|" + warehouseID + "|" + sku
}

// ──────────────────────────────────────────────────────────────────────────────
// Fakes de repositorios y colaboradores
// ──────────────────────────────────────────────────────────────────────────────

type fakeTransferRepo struct {
	transfers  map[string]*entity.Transfer
	items      map[string][]*entity.TransferItem
	list       []*repository.TransferRow
	listTotal  int
	lastFilter repository.TransferFilter
	summary    *repository.TransferSummary
	deleted    []string
	markErr    error
}

func newFakeTransferRepo() *fakeTransferRepo {
	return &fakeTransferRepo{
		transfers: map[string]*entity.Transfer{},
		items:     map[string][]*entity.TransferItem{},
	}
}

func (f *fakeTransferRepo) Create(t *entity.Transfer) error {
	f.transfers[t.ID] = t
	return nil
}

func (f *fakeTransferRepo) CreateItems(items []*entity.TransferItem) error {
	for _, it := range items {
		f.items[it.TransferID] = append(f.items[it.TransferID], it)
	}
	return nil
}

func (f *fakeTransferRepo) GetByID(id string) (*entity.Transfer, error) {
	return f.transfers[id], nil
}

func (f *fakeTransferRepo) GetDetail(id string) (*repository.TransferDetail, error) {
	t, ok := f.transfers[id]
	if !ok {
		return nil, nil
	}
	d := &repository.TransferDetail{}
	d.Transfer = *t
	for _, it := range f.items[id] {
		d.Items = append(d.Items, repository.TransferItemDetail{Item: *it})
		d.ItemCount++
		d.TotalQuantity = d.TotalQuantity.Add(it.Quantity)
	}
	return d, nil
}

func (f *fakeTransferRepo) ListItems(transferID string) ([]*entity.TransferItem, error) {
	return f.items[transferID], nil
}

func (f *fakeTransferRepo) List(filter repository.TransferFilter) ([]*repository.TransferRow, int, error) {
	f.lastFilter = filter
	return f.list, f.listTotal, nil
}

func (f *fakeTransferRepo) Summary(companyID string) (*repository.TransferSummary, error) {
	if f.summary == nil {
		return &repository.TransferSummary{}, nil
	}
	return f.summary, nil
}

func (f *fakeTransferRepo) MarkCompleted(id, completedBy string, completedAt time.Time) error {
	if f.markErr != nil {
		return f.markErr
	}
	t, ok := f.transfers[id]
	if !ok {
		return fmt.Errorf("traslado %s no existe", id)
	}
	t.Status = entity.TransferStatusCompleted
	t.CompletedBy = &completedBy
	t.CompletedAt = &completedAt
	return nil
}

func (f *fakeTransferRepo) DeleteWithItems(id string) error {
	f.deleted = append(f.deleted, id)
	delete(f.items, id)
	delete(f.transfers, id)
	return nil
}

type fakeStockRepo struct {
	rows    map[string]*entity.Stock
	ensured []string
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{rows: map[string]*entity.Stock{}}
}

func (f *fakeStockRepo) put(s *entity.Stock) {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	f.rows[stockKey(s.CompanyID, s.WarehouseID, s.SKU)] = s
}

func (f *fakeStockRepo) Get(companyID, warehouseID, sku string) (*entity.Stock, error) {
	return f.rows[stockKey(companyID, warehouseID, sku)], nil
}

func (f *fakeStockRepo) GetForUpdate(companyID, warehouseID, sku string) (*entity.Stock, error) {
	return f.Get(companyID, warehouseID, sku)
}

func (f *fakeStockRepo) Upsert(s *entity.Stock) error {
	f.put(s)
	return nil
}

func (f *fakeStockRepo) EnsureRow(companyID, warehouseID, sku string, isPart bool) error {
	key := stockKey(companyID, warehouseID, sku)
	f.ensured = append(f.ensured, key)
	if _, ok := f.rows[key]; !ok {
		f.put(&entity.Stock{
			CompanyID:   companyID,
			WarehouseID: warehouseID,
			SKU:         sku,
			IsPart:      isPart,
			Quantity:    decimal.Zero,
		})
	}
	return nil
}

type fakeDeviceRepo struct {
	devices      map[string]*entity.Device
	byIdentifier map[string]*entity.Device
	mappings     map[string]bool // deviceID|stockID
	moves        []string
}

func newFakeDeviceRepo() *fakeDeviceRepo {
	return &fakeDeviceRepo{
		devices:      map[string]*entity.Device{},
		byIdentifier: map[string]*entity.Device{},
		mappings:     map[string]bool{},
	}
}

func (f *fakeDeviceRepo) GetByID(id string) (*entity.Device, error) {
	return f.devices[id], nil
}

func (f *fakeDeviceRepo) FindByIdentifier(companyID, identifier string) (*entity.Device, error) {
	return f.byIdentifier[identifier], nil
}

func (f *fakeDeviceRepo) IsMappedToStock(deviceID, stockID string) (bool, error) {
	return f.mappings[deviceID+"|"+stockID], nil
}

func (f *fakeDeviceRepo) MoveStockMapping(deviceID, fromStockID, toStockID, toWarehouseID string) error {
	f.moves = append(f.moves, deviceID+"|"+fromStockID+"|"+toStockID+"|"+toWarehouseID)
	return nil
}

type fakeWarehouseRepo struct {
	warehouses map[string]*entity.Warehouse
}

func (f *fakeWarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	return f.warehouses[id], nil
}

func (f *fakeWarehouseRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Warehouse, error) {
	var list []*entity.Warehouse
	for _, w := range f.warehouses {
		if w.CompanyID == companyID {
			list = append(list, w)
		}
	}
	return list, nil
}

type fakeTxRunner struct {
	transfers *fakeTransferRepo
	stock     *fakeStockRepo
	devices   *fakeDeviceRepo
	runs      int
}

func (f *fakeTxRunner) RunTransfer(ctx context.Context, fn func(
	repository.TransferRepository,
	repository.StockRepository,
	repository.DeviceRepository,
) error) error {
	f.runs++
	return fn(f.transfers, f.stock, f.devices)
}

// fakeLedger registra cada intento de movimiento; los SKUs en failOut/failIn
// fallan en la salida/entrada respectivamente.
type fakeLedger struct {
	attempts []ledger.MovementInput
	failOut  map[string]bool
	failIn   map[string]bool
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{failOut: map[string]bool{}, failIn: map[string]bool{}}
}

func (f *fakeLedger) Register(ctx context.Context, in ledger.MovementInput) (*entity.StockMovement, error) {
	f.attempts = append(f.attempts, in)
	if in.Reason == entity.MovementReasonTransferOut && f.failOut[in.SKU] {
		return nil, errors.New("stock insuficiente en origen")
	}
	if in.Reason == entity.MovementReasonTransferIn && f.failIn[in.SKU] {
		return nil, errors.New("fila de stock inexistente en destino")
	}
	return &entity.StockMovement{ID: uuid.New().String(), SKU: in.SKU, Quantity: in.Quantity, Reason: in.Reason}, nil
}

type eventCall struct {
	deviceID, actorID, transferID string
}

type fakeEvents struct {
	outCalls []eventCall
	inCalls  []eventCall
	err      error
}

func (f *fakeEvents) TransferOut(ctx context.Context, companyID, deviceID, actorID, transferID string) (*entity.DeviceEvent, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.outCalls = append(f.outCalls, eventCall{deviceID, actorID, transferID})
	return &entity.DeviceEvent{DeviceID: deviceID, Type: entity.DeviceEventTransferOut}, nil
}

func (f *fakeEvents) TransferIn(ctx context.Context, companyID, deviceID, actorID, transferID string) (*entity.DeviceEvent, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.inCalls = append(f.inCalls, eventCall{deviceID, actorID, transferID})
	return &entity.DeviceEvent{DeviceID: deviceID, Type: entity.DeviceEventTransferIn}, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

const (
	testCompanyID = "00000000-0000-0000-0000-00000000c001"
	testUserID    = "00000000-0000-0000-0000-00000000u001"
	testWhFrom    = "00000000-0000-0000-0000-0000000wh001"
	testWhTo      = "00000000-0000-0000-0000-0000000wh002"
)

type fixture struct {
	repo    *fakeTransferRepo
	stock   *fakeStockRepo
	devices *fakeDeviceRepo
	ledger  *fakeLedger
	events  *fakeEvents
	tx      *fakeTxRunner
	uc      *transfer.TransferUseCase
}

// newFixture arma el caso de uso con fakes y dos bodegas de la empresa de prueba.
func newFixture() *fixture {
	repo := newFakeTransferRepo()
	stock := newFakeStockRepo()
	devices := newFakeDeviceRepo()
	warehouses := &fakeWarehouseRepo{warehouses: map[string]*entity.Warehouse{
		testWhFrom: {ID: testWhFrom, CompanyID: testCompanyID, Name: "Bodega Principal"},
		testWhTo:   {ID: testWhTo, CompanyID: testCompanyID, Name: "Bodega Norte"},
	}}
	led := newFakeLedger()
	events := &fakeEvents{}
	txRunner := &fakeTxRunner{transfers: repo, stock: stock, devices: devices}
	uc := transfer.NewTransferUseCase(txRunner, repo, warehouses, devices, led, events, logger.NewNop())
	return &fixture{repo: repo, stock: stock, devices: devices, ledger: led, events: events, tx: txRunner, uc: uc}
}

// withStock agrega stock disponible en una bodega.
func (f *fixture) withStock(warehouseID, sku string, qty int64, isPart bool) *entity.Stock {
	s := &entity.Stock{
		CompanyID:   testCompanyID,
		WarehouseID: warehouseID,
		SKU:         sku,
		IsPart:      isPart,
		Quantity:    decimal.NewFromInt(qty),
	}
	f.stock.put(s)
	return s
}

// withPendingTransfer siembra un traslado pendiente con items.
func (f *fixture) withPendingTransfer(id string, items ...*entity.TransferItem) *entity.Transfer {
	t := &entity.Transfer{
		ID:              id,
		CompanyID:       testCompanyID,
		FromWarehouseID: testWhFrom,
		ToWarehouseID:   testWhTo,
		Status:          entity.TransferStatusPending,
		CreatedBy:       testUserID,
		CreatedAt:       time.Now(),
	}
	f.repo.transfers[id] = t
	f.repo.items[id] = items
	return t
}
