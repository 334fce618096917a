package vault

import "fmt"

type (
	UsernameTaken struct {
		Username string
	}

	JokeNotFound struct {
		ID string
	}
)

func (u UsernameTaken) Error() string {
	return fmt.Sprintf("user with username %v already exists", u.Username)
}

func (j JokeNotFound) Error() string {
	return fmt.Sprintf("joke %v not found", j.ID)
}
