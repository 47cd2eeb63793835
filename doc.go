/*
Package clickhouse provides a lightweight client for the ClickHouse HTTP
query interface.

# Client

Use NewClient to create a client. This is the entrance to every operation:

	client, err := clickhouse.NewClient(&clickhouse.Config{
		Host:     "localhost",
		Port:     8123,
		Username: "default",
		Database: "default",
		Format:   clickhouse.FormatJSONEachRow,
	})

# Query Data

Query runs a statement and decodes the response according to the format in
effect. A FORMAT clause is appended automatically unless the statement
already carries one or embeds inline VALUES data:

	res, err := client.Query(ctx, "SELECT id, name FROM users", nil)
	if err != nil {
		return err
	}
	for _, row := range res.Rows {
		fmt.Println(row["id"], row["name"])
	}

# Write Data

Insert serializes rows per the insert format (JSONEachRow by default) and
posts them as the request body:

	err := client.Insert(ctx, "users", []clickhouse.Row{
		{"id": 1, "name": "alice"},
	}, nil)

Each call is a single synchronous HTTP exchange; the client holds no
connection state and is safe for concurrent use.
*/
package clickhouse
