package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/product"
	"github.com/fekuna/omnipos-inventory-service/internal/product/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/stock"
	"github.com/fekuna/omnipos-inventory-service/pkg/cache"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/fekuna/omnipos-inventory-service/pkg/search"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	indexName       = "products"
	listCachePrefix = "products:list:"
	listCacheTTL    = 5 * time.Minute

	defaultThreshold = 5
)

var defaultExtraCharge = decimal.RequireFromString("5.00")

const indexMapping = `{
	"mappings": {
		"properties": {
			"id": { "type": "long" },
			"name": { "type": "text", "fields": { "raw": { "type": "keyword" } } },
			"category": { "type": "keyword" },
			"description": { "type": "text" },
			"price": { "type": "double" },
			"quantity_in_stock": { "type": "integer" },
			"threshold_level": { "type": "integer" },
			"date_added": { "type": "date" }
		}
	}
}`

type productUseCase struct {
	repo   product.Repository
	cache  *cache.RedisClient
	es     *search.Client
	logger logger.ZapLogger
}

// NewProductUseCase wires the product use case. es may be nil, in which case
// search falls back to the database.
func NewProductUseCase(repo product.Repository, cache *cache.RedisClient, es *search.Client, log logger.ZapLogger) product.UseCase {
	return &productUseCase{
		repo:   repo,
		cache:  cache,
		es:     es,
		logger: log,
	}
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	p := &model.Product{
		Name:               strings.TrimSpace(input.Name),
		Category:           strings.TrimSpace(input.Category),
		Description:        input.Description,
		QuantityInStock:    input.QuantityInStock,
		Price:              input.Price,
		ThresholdLevel:     defaultThreshold,
		ExtraChargePercent: defaultExtraCharge,
	}
	if input.ThresholdLevel != nil {
		p.ThresholdLevel = *input.ThresholdLevel
	}
	if input.ExtraChargePercent != nil {
		p.ExtraChargePercent = *input.ExtraChargePercent
	}

	if err := validateProduct(p); err != nil {
		return nil, err
	}
	if err := uc.ensureUniqueName(ctx, p.Name, 0); err != nil {
		return nil, err
	}

	err := uc.repo.WithinTx(ctx, func(tx product.TxRepository) error {
		if err := tx.Create(ctx, p); err != nil {
			return err
		}
		return stock.Reconcile(ctx, tx, p)
	})
	if err != nil {
		return nil, err
	}

	go uc.Refresh(context.Background(), p.ID)

	return p, nil
}

func (uc *productUseCase) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, product.ErrNotFound(id)
	}
	return p, nil
}

type cachedList struct {
	Products []model.Product
	Count    int
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	cacheKey, err := generateCacheKey(filters)
	if err == nil {
		var cached cachedList
		hit, err := uc.cache.GetJSON(ctx, cacheKey, &cached)
		if err != nil {
			uc.logger.Warn("product list cache read failed", zap.Error(err))
		}
		if hit {
			return cached.Products, cached.Count, nil
		}
	}

	if filters.SearchQuery != "" && !filters.LowStock && uc.es != nil {
		products, count, err := uc.searchElastic(ctx, filters)
		if err == nil {
			return products, count, nil
		}
		uc.logger.Error("ES search failed, falling back to DB", zap.Error(err))
	}

	products, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, err
	}

	if cacheKey != "" {
		if err := uc.cache.SetJSON(ctx, cacheKey, cachedList{Products: products, Count: count}, listCacheTTL); err != nil {
			uc.logger.Warn("product list cache write failed", zap.Error(err))
		}
	}
	return products, count, nil
}

func (uc *productUseCase) searchElastic(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	must := []map[string]interface{}{
		{
			"multi_match": map[string]interface{}{
				"query":     filters.SearchQuery,
				"fields":    []string{"name^3", "category", "description"},
				"fuzziness": "AUTO",
			},
		},
	}
	if filters.Category != "" {
		must = append(must, map[string]interface{}{
			"term": map[string]interface{}{"category": filters.Category},
		})
	}
	q := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{"must": must},
		},
	}
	if filters.PageSize > 0 {
		page := filters.Page
		if page < 1 {
			page = 1
		}
		q["from"] = (page - 1) * filters.PageSize
		q["size"] = filters.PageSize
	}

	res, err := uc.es.Search(ctx, indexName, q)
	if err != nil {
		return nil, 0, err
	}
	products := make([]model.Product, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var p model.Product
		if err := json.Unmarshal(hit.Source, &p); err != nil {
			uc.logger.Warn("skipping undecodable search hit", zap.String("id", hit.ID), zap.Error(err))
			continue
		}
		products = append(products, p)
	}
	return products, res.Hits.Total.Value, nil
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	p, err := uc.GetProduct(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if !strings.EqualFold(name, p.Name) {
			if err := uc.ensureUniqueName(ctx, name, p.ID); err != nil {
				return nil, err
			}
		}
		p.Name = name
	}
	if input.Category != nil {
		p.Category = strings.TrimSpace(*input.Category)
	}
	if input.Description != nil {
		p.Description = *input.Description
	}
	if input.QuantityInStock != nil {
		p.QuantityInStock = *input.QuantityInStock
	}
	if input.Price != nil {
		p.Price = *input.Price
	}
	if input.ThresholdLevel != nil {
		p.ThresholdLevel = *input.ThresholdLevel
	}
	if input.ExtraChargePercent != nil {
		p.ExtraChargePercent = *input.ExtraChargePercent
	}

	if err := validateProduct(p); err != nil {
		return nil, err
	}

	err = uc.repo.WithinTx(ctx, func(tx product.TxRepository) error {
		if err := tx.Update(ctx, p, input.QuantityInStock != nil); err != nil {
			return err
		}
		return stock.Reconcile(ctx, tx, p)
	})
	if err != nil {
		return nil, err
	}

	go uc.Refresh(context.Background(), p.ID)

	return p, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, id int64) error {
	deleted, err := uc.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return product.ErrNotFound(id)
	}

	go func() {
		bg := context.Background()
		uc.invalidateProductCache(bg)
		if uc.es != nil {
			if err := uc.es.Delete(bg, indexName, strconv.FormatInt(id, 10)); err != nil {
				uc.logger.Error("failed to remove product from index", zap.Int64("product_id", id), zap.Error(err))
			}
		}
	}()
	return nil
}

func (uc *productUseCase) Refresh(ctx context.Context, ids ...int64) {
	uc.invalidateProductCache(ctx)

	if uc.es == nil || len(ids) == 0 {
		return
	}
	products, err := uc.repo.FindByIDs(ctx, ids)
	if err != nil {
		uc.logger.Error("failed to load products for indexing", zap.Error(err))
		return
	}
	// Index creation is idempotent; doing it lazily keeps startup independent of ES.
	_ = uc.es.CreateIndex(ctx, indexName, indexMapping)
	for i := range products {
		p := &products[i]
		if err := uc.es.Index(ctx, indexName, strconv.FormatInt(p.ID, 10), p); err != nil {
			uc.logger.Error("failed to index product", zap.Int64("product_id", p.ID), zap.Error(err))
		}
	}
}

func (uc *productUseCase) invalidateProductCache(ctx context.Context) {
	if _, err := uc.cache.DeleteByPattern(ctx, listCachePrefix+"*"); err != nil {
		uc.logger.Warn("failed to invalidate product list cache", zap.Error(err))
	}
}

func (uc *productUseCase) ensureUniqueName(ctx context.Context, name string, excludeID int64) error {
	unique, err := uc.repo.IsNameUnique(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if !unique {
		return product.ErrDuplicateName
	}
	return nil
}

func validateProduct(p *model.Product) error {
	switch {
	case p.Name == "":
		return apperror.Validation("Product name is required.")
	case p.Price.IsNegative():
		return apperror.Validation("Price must not be negative.")
	case p.QuantityInStock < 0:
		return apperror.Validation("Quantity in stock must not be negative.")
	case p.ThresholdLevel < 0:
		return apperror.Validation("Threshold level must not be negative.")
	case p.ExtraChargePercent.IsNegative():
		return apperror.Validation("Extra charge percent must not be negative.")
	}
	return nil
}

func generateCacheKey(filters *dto.ProductFilters) (string, error) {
	data, err := json.Marshal(filters)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%x", listCachePrefix, md5.Sum(data)), nil
}
