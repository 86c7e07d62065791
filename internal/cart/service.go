package cart

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// storageKeyPrefix — фиксированное пространство имён ключей корзины.
// Версия в имени позволяет безболезненно менять формат снимка.
const storageKeyPrefix = "glassgrocer_cart_v2:"

// Summary — производные значения корзины. Пересчитываются на каждое чтение,
// не кэшируются.
type Summary struct {
	Count int     `json:"count"`
	Total float64 `json:"total"`
}

// Service — корзина: упорядоченный список позиций (порядок вставки = порядок
// показа), синхронизируемый в Store после каждого изменения.
type Service struct {
	store Store
	log   *zap.Logger
}

func NewService(store Store, log *zap.Logger) *Service {
	return &Service{store: store, log: log}
}

func storageKey(userID uuid.UUID) string {
	return storageKeyPrefix + userID.String()
}

// Items возвращает валидные позиции корзины. Повреждённые записи (без товара,
// без id, с неположительным количеством) отбрасываются; если снимок не
// парсится целиком, он удаляется из хранилища.
func (s *Service) Items(ctx context.Context, userID uuid.UUID) ([]CartItem, error) {
	key := storageKey(userID)

	data, ok, err := s.store.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []CartItem{}, nil
	}

	var raw []struct {
		Product  *CartProduct `json:"product"`
		Quantity float64      `json:"quantity"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		s.log.Warn("Снимок корзины повреждён, удаляем целиком",
			zap.String("user_id", userID.String()), zap.Error(err))
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.log.Error("failed to delete corrupted cart", zap.Error(delErr))
		}
		return []CartItem{}, nil
	}

	items := make([]CartItem, 0, len(raw))
	for _, entry := range raw {
		if entry.Product == nil || entry.Product.ID == uuid.Nil {
			continue
		}
		if entry.Quantity <= 0 || entry.Quantity != float64(int(entry.Quantity)) {
			continue
		}
		items = append(items, CartItem{Product: *entry.Product, Quantity: int(entry.Quantity)})
	}
	return items, nil
}

// Add добавляет товар: существующая позиция получает +quantity (дубликат не
// создаётся), новая — встаёт в конец.
func (s *Service) Add(ctx context.Context, userID uuid.UUID, product CartProduct, quantity int) ([]CartItem, error) {
	if quantity <= 0 {
		quantity = 1
	}

	items, err := s.Items(ctx, userID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range items {
		if items[i].Product.ID == product.ID {
			items[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		items = append(items, CartItem{Product: product, Quantity: quantity})
	}

	if err := s.persist(ctx, userID, items); err != nil {
		return nil, err
	}
	return items, nil
}

// Remove удаляет позицию. Отсутствующий товар — no-op.
func (s *Service) Remove(ctx context.Context, userID, productID uuid.UUID) ([]CartItem, error) {
	items, err := s.Items(ctx, userID)
	if err != nil {
		return nil, err
	}

	kept := items[:0]
	for _, it := range items {
		if it.Product.ID != productID {
			kept = append(kept, it)
		}
	}

	if err := s.persist(ctx, userID, kept); err != nil {
		return nil, err
	}
	return kept, nil
}

// UpdateQuantity заменяет количество на месте (позиция не двигается).
// Неположительное количество равносильно удалению.
func (s *Service) UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) ([]CartItem, error) {
	if quantity <= 0 {
		return s.Remove(ctx, userID, productID)
	}

	items, err := s.Items(ctx, userID)
	if err != nil {
		return nil, err
	}

	for i := range items {
		if items[i].Product.ID == productID {
			items[i].Quantity = quantity
			break
		}
	}

	if err := s.persist(ctx, userID, items); err != nil {
		return nil, err
	}
	return items, nil
}

// Clear опустошает корзину и удаляет сохранённый снимок.
func (s *Service) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.store.Delete(ctx, storageKey(userID))
}

// ItemQuantity — количество товара в корзине, 0 если его нет.
func (s *Service) ItemQuantity(ctx context.Context, userID, productID uuid.UUID) (int, error) {
	items, err := s.Items(ctx, userID)
	if err != nil {
		return 0, err
	}
	for _, it := range items {
		if it.Product.ID == productID {
			return it.Quantity, nil
		}
	}
	return 0, nil
}

// Summarize пересчитывает счётчик и сумму корзины. Отсутствующая цена
// считается нулём.
func Summarize(items []CartItem) Summary {
	var sum Summary
	for _, it := range items {
		sum.Count += it.Quantity
		sum.Total += it.Product.Price * float64(it.Quantity)
	}
	return sum
}

// persist пишет снимок после каждого изменения. Пустая корзина означает
// удаление ключа, а не хранение пустого списка.
func (s *Service) persist(ctx context.Context, userID uuid.UUID, items []CartItem) error {
	key := storageKey(userID)

	if len(items) == 0 {
		return s.store.Delete(ctx, key)
	}

	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.store.Save(ctx, key, data)
}
