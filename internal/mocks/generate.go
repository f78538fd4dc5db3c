package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Warehouse --dir ../usecase --output usecase --outpkg usecasemock --filename warehouse_mock.go
