package httpUsecase

import "quiz-service/domain"

type RoomReader interface {
	Snapshot(code string) (domain.RoomSnapshot, error)
	RoomCount() int
	ConnectionCount() int
}

type ConnectionCounter interface {
	ClientCount() int
}
