package structs

// Role stores a guild's role definition.
type Role struct {
	ID           Snowflake `json:"id"`
	Name         string    `json:"name"`
	Color        int32     `json:"color"`
	Hoist        bool      `json:"hoist"`
	Position     int32     `json:"position"`
	Permissions  string    `json:"permissions"`
	Managed      bool      `json:"managed"`
	Mentionable  bool      `json:"mentionable"`
}
