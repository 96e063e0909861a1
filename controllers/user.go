// controllers/user.go
package controllers

import (
	"encoding/csv"
	"errors"
	"io"
	"net/http"
	"strings"

	"gtr-backend/config"
	"gtr-backend/models"
	"gtr-backend/services"
	"gtr-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateUserInput defines the expected JSON structure
type CreateUserInput struct {
	Name      string `json:"name" binding:"required"`
	Birthdate string `json:"birthdate" binding:"omitempty,datetime=2006-01-02"`
	Role      string `json:"role"`
	Utec      string `json:"utec"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone"`
}

// UpdateUserInput defines the expected JSON structure
type UpdateUserInput struct {
	Name      *string `json:"name"`
	Birthdate *string `json:"birthdate" binding:"omitempty,datetime=2006-01-02"`
	Role      *string `json:"role"`
	Utec      *string `json:"utec"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Phone     *string `json:"phone"`
}

// CreateUser registers a single staff member
func CreateUser(c *gin.Context) {
	var input CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	phone := utils.NormalizePhone(input.Phone)
	if phone != "" && !utils.ValidatePhone(phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number")
		return
	}

	user := models.User{
		Name:      input.Name,
		Birthdate: input.Birthdate,
		Role:      input.Role,
		Utec:      input.Utec,
		Email:     input.Email,
		Phone:     phone,
	}

	if err := config.DB.Create(&user).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	c.JSON(http.StatusCreated, user)
}

// GetUsers lists all staff members, ordered by name
func GetUsers(c *gin.Context) {
	var users []models.User
	query := config.DB.Order("name")

	if utec := c.Query("utec"); utec != "" {
		query = query.Where("utec = ?", utec)
	}
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}

	if err := query.Find(&users).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve users")
		return
	}

	c.JSON(http.StatusOK, users)
}

// GetUser retrieves a single staff member by ID
func GetUser(c *gin.Context) {
	userUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", userUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "User not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateUser edits a staff member
func UpdateUser(c *gin.Context) {
	userUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	var input UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", userUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "User not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Birthdate != nil {
		user.Birthdate = *input.Birthdate
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.Utec != nil {
		user.Utec = *input.Utec
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Phone != nil {
		phone := utils.NormalizePhone(*input.Phone)
		if phone != "" && !utils.ValidatePhone(phone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number")
			return
		}
		user.Phone = phone
	}

	if err := config.DB.Save(&user).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update user")
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeleteUser removes a staff member. Reminders referencing the user are
// left in place and simply stop matching the dispatch join.
func DeleteUser(c *gin.Context) {
	userUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	result := config.DB.Delete(&models.User{}, "id = ?", userUUID)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete user")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "User not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

// ImportUsers bulk-registers staff from an uploaded CSV file with the
// columns: name, birthdate, role, utec, email, phone. Rows missing name
// or email are skipped and counted.
func ImportUsers(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Missing CSV file upload")
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Failed to read CSV header")
		return
	}

	col := map[string]int{}
	for i, name := range header {
		col[normalizeHeader(name)] = i
	}
	for _, required := range []string{"name", "birthdate", "role", "utec", "email", "phone"} {
		if _, ok := col[required]; !ok {
			utils.RespondWithError(c, http.StatusBadRequest, "CSV must contain column: "+required)
			return
		}
	}

	imported := 0
	skipped := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}

		// Implausible phones are dropped rather than failing the row;
		// only name and email are required.
		phone := utils.NormalizePhone(row[col["phone"]])
		if !utils.ValidatePhone(phone) {
			phone = ""
		}

		user := models.User{
			Name:      row[col["name"]],
			Birthdate: row[col["birthdate"]],
			Role:      row[col["role"]],
			Utec:      row[col["utec"]],
			Email:     row[col["email"]],
			Phone:     phone,
		}
		if user.Name == "" || user.Email == "" {
			skipped++
			continue
		}

		if err := config.DB.Create(&user).Error; err != nil {
			skipped++
			continue
		}
		imported++
	}

	c.JSON(http.StatusOK, gin.H{"imported": imported, "skipped": skipped})
}

func normalizeHeader(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// GetUtecs returns the curated site list merged with sites found in
// stored user data
func GetUtecs(c *gin.Context) {
	utecs, err := services.ListUtecs(config.DB)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve utecs")
		return
	}
	c.JSON(http.StatusOK, utecs)
}

// GetRoles returns the curated role list merged with roles found in
// stored user data
func GetRoles(c *gin.Context) {
	roles, err := services.ListRoles(config.DB)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve roles")
		return
	}
	c.JSON(http.StatusOK, roles)
}
