package payconfig

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	payconfigerrors "go-payroll/internal/payconfig/errors"
)

const (
	configTypeCacheKeyPrefix = "payconfig:type:"
	configTypeCacheTTL       = 5 * time.Minute
)

func configTypeCacheKey(configType string) string {
	return configTypeCacheKeyPrefix + configType
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

var knownConfigTypes = map[string]bool{
	TypeSSS:             true,
	TypePhilHealth:      true,
	TypePagIBIG:         true,
	TypeTax:             true,
	TypePremiums:        true,
	TypeSchedule:        true,
	TypeRounding:        true,
	TypeThirteenthMonth: true,
}

//go:generate mockgen -source=config_service.go -destination=mock/config_service_mock.go -package=mock
type Service interface {
	GetConfig(ctx context.Context, configType, configKey string, asOf time.Time) (ConfigEntryResponse, error)
	UpdateConfig(ctx context.Context, req UpdateConfigRequest) (ConfigEntryResponse, error)
	GetConfigsByType(ctx context.Context, configType string, asOf time.Time) (map[string]string, error)
	GetAllConfigs(ctx context.Context, asOf time.Time) ([]ConfigEntryResponse, error)
}

type service struct {
	db     *gorm.DB
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("payconfig.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payconfig.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) GetConfig(
	ctx context.Context,
	configType, configKey string,
	asOf time.Time,
) (ConfigEntryResponse, error) {
	entry, err := s.repo.FindByTypeAndKey(ctx, configType, configKey, asOf)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ConfigEntryResponse{}, payconfigerrors.ErrConfigNotFound
	}
	if err != nil {
		return ConfigEntryResponse{}, err
	}
	return mapToResponse(*entry), nil
}

// UpdateConfig never mutates a stored rate in place: the active entry is
// expired at the new effective date and a fresh row is inserted, keeping the
// full rate history auditable.
func (s *service) UpdateConfig(
	ctx context.Context,
	req UpdateConfigRequest,
) (ConfigEntryResponse, error) {
	if !knownConfigTypes[req.ConfigType] {
		return ConfigEntryResponse{}, payconfigerrors.ErrUnknownConfigType
	}

	effectiveDate, err := parseDate(req.EffectiveDate)
	if err != nil {
		return ConfigEntryResponse{}, payconfigerrors.ErrInvalidEffectiveDate
	}

	// Reject values the typed schema cannot decode before they are stored.
	probe := Defaults()
	if err := applySection(probe, req.ConfigType, map[string]string{req.ConfigKey: req.ConfigValue}); err != nil {
		return ConfigEntryResponse{}, err
	}

	newEntry := &PayrollConfiguration{
		ID:            uuid.New(),
		ConfigType:    req.ConfigType,
		ConfigKey:     req.ConfigKey,
		ConfigValue:   req.ConfigValue,
		Description:   req.Description,
		EffectiveDate: effectiveDate,
		IsActive:      true,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		current, err := qtx.FindByTypeAndKey(ctx, req.ConfigType, req.ConfigKey, effectiveDate)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if current != nil {
			if err := qtx.ExpireEntry(ctx, current.ID.String(), effectiveDate); err != nil {
				return err
			}
		}

		return qtx.Insert(ctx, newEntry)
	})
	if err != nil {
		return ConfigEntryResponse{}, err
	}

	s.invalidateTypeCache(ctx, req.ConfigType)

	s.logger.Info("configuration updated",
		zap.String("config_type", req.ConfigType),
		zap.String("config_key", req.ConfigKey),
		zap.String("effective_date", req.EffectiveDate),
	)

	return mapToResponse(*newEntry), nil
}

// GetConfigsByType returns the key/value map for one config type, cached in
// redis with a singleflight fill so a batch start does not stampede the
// store. Only the current-date view is cached; an explicit historical asOf
// always reads the store, so the append-only effective dating stays
// authoritative. The per-run snapshot does its own load; this path serves
// the admin UI and collaborators.
func (s *service) GetConfigsByType(
	ctx context.Context,
	configType string,
	asOf time.Time,
) (map[string]string, error) {
	if !knownConfigTypes[configType] {
		return nil, payconfigerrors.ErrUnknownConfigType
	}

	cacheKey := configTypeCacheKey(configType)
	cacheable := sameDay(asOf, time.Now())

	if cacheable && s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var out map[string]string
			if json.Unmarshal(cached, &out) == nil {
				return out, nil
			}
		}
	}

	// Flights are keyed per evaluation date so concurrent historical reads
	// never collapse into the current-date result.
	flightKey := cacheKey + ":" + asOf.Format("2006-01-02")
	v, err, _ := s.sf.Do(flightKey, func() (any, error) {
		entries, err := s.repo.FindByType(ctx, configType, asOf)
		if err != nil {
			return nil, err
		}

		out := make(map[string]string, len(entries))
		for _, entry := range entries {
			out[entry.ConfigKey] = entry.ConfigValue
		}

		if cacheable && s.rdb != nil {
			if payload, err := json.Marshal(out); err == nil {
				_ = s.rdb.Set(ctx, cacheKey, payload, configTypeCacheTTL).Err()
			}
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(map[string]string), nil
}

func (s *service) GetAllConfigs(ctx context.Context, asOf time.Time) ([]ConfigEntryResponse, error) {
	entries, err := s.repo.FindActiveAt(ctx, asOf)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(entries), nil
}

func (s *service) invalidateTypeCache(ctx context.Context, configType string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, configTypeCacheKey(configType)).Err(); err != nil {
		s.logger.Warn("config cache invalidation failed",
			zap.String("config_type", configType),
			zap.Error(err),
		)
	}
}
