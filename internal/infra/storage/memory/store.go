// Package memory хранилище в памяти процесса с теми же контрактами, что и PostgreSQL.
// Используется драйвером "memory" и как изолированное хранилище в тестах.
// Отсутствие записи возвращает те же sentinel-ошибки, что и PostgreSQL репозитории.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-SlotService/pkg/types"
)

type overrideKey struct {
	vendorID string
	day      string
}

type ruleKey struct {
	vendorID string
	startDay string
}

type demandKey struct {
	vendorID string
	day      string
	slot     types.TimeString
}

type txMarker struct{}

// Store хранит все записи. Чтение и запись защищены mu,
// тела DoSerializable дополнительно выполняются по одному под txMu.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	settings  map[string]settingsRecord
	overrides map[overrideKey]overrideRecord
	rules     map[ruleKey]ruleRecord
	demand    map[demandKey]demandRecord

	nextID  int64
	failure error
	now     func() time.Time
}

// New создает пустое хранилище
func New() *Store {
	return &Store{
		settings:  make(map[string]settingsRecord),
		overrides: make(map[overrideKey]overrideRecord),
		rules:     make(map[ruleKey]ruleRecord),
		demand:    make(map[demandKey]demandRecord),
		now:       time.Now,
	}
}

// Settings возвращает репозиторий настроек
func (s *Store) Settings() *SettingsRepository {
	return &SettingsRepository{store: s}
}

// Hours возвращает репозиторий исключений и правил
func (s *Store) Hours() *HoursRepository {
	return &HoursRepository{store: s}
}

// Demand возвращает репозиторий спроса
func (s *Store) Demand() *DemandRepository {
	return &DemandRepository{store: s}
}

// SetFailure заставляет все операции возвращать err, пока не сброшено через nil.
// Имитирует недоступное хранилище.
func (s *Store) SetFailure(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failure = err
}

// DoSerializable выполняет fn под общей блокировкой транзакций,
// поэтому проверка и запись внутри fn не перемежаются с другими.
func (s *Store) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txMarker{}) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	return fn(context.WithValue(ctx, txMarker{}, true))
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.failure
}
