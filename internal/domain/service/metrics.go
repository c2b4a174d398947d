package service

// BusinessMetrics records domain events worth counting.
type BusinessMetrics interface {
	OrderCreated(source string, total float64)
	OrderStatusChanged(from, to string)
	OrderRejected(reason string)
}
