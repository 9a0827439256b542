package structs

type CreateEntryRequest struct {
	Title   string `json:"title"`
	Content string `json:"content" binding:"required"`
	Mood    string `json:"mood"`
}

type DeleteEntriesRequest struct {
	EntryIDs []string `json:"entryIds" binding:"required,min=1"`
}

type UpdateProfileRequest struct {
	Name  *string   `json:"name"`
	Bio   *string   `json:"bio"`
	Goals *[]string `json:"goals"`
}

type ChatRequest struct {
	Message string                 `json:"message" binding:"required"`
	Context map[string]interface{} `json:"context"`
}
