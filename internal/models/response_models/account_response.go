package response_models

type UserResponse struct {
	ID                string   `json:"id"`
	FirstName         string   `json:"first_name"`
	LastName          string   `json:"last_name"`
	Email             string   `json:"email"`
	Phone             string   `json:"phone"`
	Location          string   `json:"location"`
	Bio               string   `json:"bio"`
	AvatarURL         string   `json:"avatar_url"`
	TravelPreferences []string `json:"travel_preferences"`
	CreatedAt         string   `json:"created_at"`
}
