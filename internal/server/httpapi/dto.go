package httpapi

import (
	"time"

	"github.com/dmitrijs2005/gophfeed/internal/server/models"
)

// envelope is the body of every response except the post listing.
type envelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Token   string   `json:"token,omitempty"`
	User    *userDTO `json:"user,omitempty"`
	Post    *postDTO `json:"post,omitempty"`
}

type userDTO struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Bio   string `json:"bio"`
}

type authorDTO struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

type commentDTO struct {
	ID        string    `json:"_id"`
	Author    authorDTO `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

type postDTO struct {
	ID        string       `json:"_id"`
	Author    authorDTO    `json:"author"`
	Title     string       `json:"title,omitempty"`
	Content   string       `json:"content"`
	Image     string       `json:"image,omitempty"`
	Likes     []string     `json:"likes"`
	Comments  []commentDTO `json:"comments"`
	CreatedAt time.Time    `json:"createdAt"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profileRequest struct {
	Name string `json:"name"`
	Bio  string `json:"bio"`
}

type postRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Image   string `json:"image"`
}

func toUserDTO(u *models.User) *userDTO {
	return &userDTO{ID: u.ID, Name: u.Name, Email: u.Email, Bio: u.Bio}
}

func toPostDTO(p *models.Post) *postDTO {
	likes := p.Likes
	if likes == nil {
		likes = []string{}
	}
	return &postDTO{
		ID:        p.ID,
		Author:    authorDTO{ID: p.AuthorID, Name: p.AuthorName},
		Title:     p.Title,
		Content:   p.Content,
		Image:     p.Image,
		Likes:     likes,
		Comments:  []commentDTO{},
		CreatedAt: p.CreatedAt,
	}
}
