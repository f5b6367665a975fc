package dto

// CreateTodoRequest and UpdateTodoRequest use pointers so an absent field
// can be told apart from its zero value.
type CreateTodoRequest struct {
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

type UpdateTodoRequest struct {
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

// TodoFilter carries the list query string. A nil Completed means no filter.
type TodoFilter struct {
	Completed *bool
	Query     string
}
