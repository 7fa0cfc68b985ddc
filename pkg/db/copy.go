package db

import (
	"context"
	"fmt"
	"io"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/stdlib"
)

// CopyFrom streams src into the given COPY ... FROM STDIN statement on a
// connection borrowed from the pool. The COPY runs as one statement, so a
// failure leaves no rows behind.
func (c *Client) CopyFrom(ctx context.Context, src io.Reader, statement string) (int64, error) {
	if src == nil {
		return 0, fmt.Errorf("copy source is required")
	}
	sqlDB, err := c.conn.DB()
	if err != nil {
		return 0, fmt.Errorf("getting sql db handle: %w", err)
	}
	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	var tag pgconn.CommandTag
	err = conn.Raw(func(driverConn any) error {
		pgxConn, ok := driverConn.(*stdlib.Conn)
		if !ok {
			return fmt.Errorf("copy requires a pgx connection, got %T", driverConn)
		}
		var copyErr error
		tag, copyErr = pgxConn.Conn().PgConn().CopyFrom(ctx, src, statement)
		return copyErr
	})
	if err != nil {
		return 0, fmt.Errorf("copy from stdin: %w", err)
	}
	return tag.RowsAffected(), nil
}
