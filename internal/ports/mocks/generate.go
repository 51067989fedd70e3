//go:generate mockgen -source=../order_gateway.go   -destination=./mock_order_gateway.go   -package=mocks
//go:generate mockgen -source=../event_publisher.go -destination=./mock_event_publisher.go -package=mocks
//go:generate mockgen -source=../validator.go       -destination=./mock_validator.go       -package=mocks
//go:generate mockgen -source=../logger.go          -destination=./mock_logger.go          -package=mocks
//go:generate mockgen -source=../sync_engine.go     -destination=./mock_sync_engine.go     -package=mocks

package mocks
