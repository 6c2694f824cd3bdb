package db

import (
	"github.com/jackc/pgx/v5"
)

var ErrRecordNotFound = pgx.ErrNoRows
