package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Directory --dir ../domain/player --output domain/player --outpkg playermock --filename directory_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Simulator --dir ../domain/trade --output domain/trade --outpkg trademock --filename simulator_mock.go
