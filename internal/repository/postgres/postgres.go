package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/Augusto9237/dg-notas-sub001/internal/repository"
)

type subscriptionRepository struct {
	db *sqlx.DB
}

type queueRepository struct {
	db *sqlx.DB
}

func NewSubscriptionRepository(db *sqlx.DB) repository.SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func NewQueueRepository(db *sqlx.DB) repository.QueueRepository {
	return &queueRepository{db: db}
}
