package x

// userResponse is the X API v2 user lookup response.
type userResponse struct {
	Data userData `json:"data"`
}

type userData struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// tweetsResponse is the X API v2 user timeline response.
type tweetsResponse struct {
	Data []tweet `json:"data"`
}

type tweet struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
}
