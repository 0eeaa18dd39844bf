package db

import (
	"database/sql"
)

func Bool(b bool) sql.NullBool { return sql.NullBool{Bool: b, Valid: true} }

func IsTrue(b sql.NullBool) bool { return b.Valid && b.Bool }
