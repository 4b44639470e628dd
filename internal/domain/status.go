package domain

// OrderStatus тип статуса заказа
type OrderStatus string

const (
	StatusCart       OrderStatus = "cart"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
)

// successor единственный допустимый следующий статус
var successor = map[OrderStatus]OrderStatus{
	StatusCart:       StatusProcessing,
	StatusProcessing: StatusShipped,
	StatusShipped:    StatusDelivered,
}

// Valid сообщает, известен ли статус вообще
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusCart, StatusProcessing, StatusShipped, StatusDelivered:
		return true
	}
	return false
}

// CanTransition проверяет переход строго по цепочке
// cart -> processing -> shipped -> delivered. Повтор текущего статуса
// тоже считается недопустимым переходом.
func CanTransition(from, to OrderStatus) bool {
	next, ok := successor[from]
	return ok && next == to
}
