package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Sink --dir ../domain/warehouse --output domain/warehouse --outpkg warehousemock --filename sink_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Reader --dir ../domain/source --output domain/source --outpkg sourcemock --filename reader_mock.go
