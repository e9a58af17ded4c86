package user

import (
	"net/http"
	"time"

	"crema_back_end/internal/database"
	"crema_back_end/internal/models"
	"crema_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

//
// 🟢 POST /api/auth/register
//
func Register(c *gin.Context) {
	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	if input.Name == "" || input.Email == "" || input.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Les champs name, email et password sont obligatoires"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	// Email déjà pris ?
	var existingID gocql.UUID
	if err := session.Query(`SELECT user_id FROM users_by_email WHERE email = ?`, input.Email).
		Scan(&existingID); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Un compte avec cet email existe déjà"})
		return
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création utilisateur"})
		return
	}

	userID := gocql.UUID(uuid.New())
	now := time.Now()

	if err := session.Query(`INSERT INTO users (user_id, email, password, name, role, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`, userID, input.Email, hashedPassword, input.Name, "customer", now).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création utilisateur"})
		return
	}

	if err := session.Query(`INSERT INTO users_by_email (email, user_id) VALUES (?, ?)`,
		input.Email, userID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création utilisateur"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Utilisateur créé avec succès"})
}

//
// 🟢 POST /api/auth/login
//
func Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	// 1. Retrouver l'utilisateur par email (prepared statement : chemin chaud)
	byEmail := database.GetPreparedGetUserByEmail()
	if byEmail == nil {
		byEmail = session.Query(`SELECT user_id FROM users_by_email WHERE email = ?`)
	}

	var userID gocql.UUID
	if err := byEmail.Bind(input.Email).Scan(&userID); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
		return
	}

	byID := database.GetPreparedGetUserByID()
	if byID == nil {
		byID = session.Query(`SELECT email, password, name, role FROM users WHERE user_id = ?`)
	}

	var user models.User
	var password string
	if err := byID.Bind(userID).Scan(&user.Email, &password, &user.Name, &user.Role); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
		return
	}
	user.ID = userID.String()

	// 2. Vérifier le mot de passe (comparaison en temps constant)
	ok, err := utils.VerifyPassword(input.Password, password)
	if err != nil || !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
		return
	}

	token, err := utils.GenerateJWT(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":   user.ID,
			"name": user.Name,
			"role": user.Role,
		},
	})
}

//
// 🟢 GET /api/auth/me
//
func Me(c *gin.Context) {
	userIDStr := c.GetString("user_id")
	if userIDStr == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID utilisateur invalide"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var user models.User
	var password string
	if err := session.Query(`SELECT email, password, name, role FROM users WHERE user_id = ?`, gocql.UUID(userID)).
		Scan(&user.Email, &password, &user.Name, &user.Role); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		return
	}
	user.ID = userIDStr

	c.JSON(http.StatusOK, user)
}
