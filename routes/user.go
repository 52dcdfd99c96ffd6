package routes

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"parkpal-server/models"
	"parkpal-server/storage"
	"parkpal-server/utils"

	"github.com/MicahParks/keyfunc"
	"github.com/golang-jwt/jwt/v4"
	"github.com/kataras/iris/v12"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

func Register(ctx iris.Context) {
	var userInput RegisterUserInput
	err := ctx.ReadJSON(&userInput)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var newUser models.User
	userExists, userExistsErr := getAndHandleUserExists(&newUser, userInput.Email)
	if userExistsErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if userExists {
		utils.CreateEmailAlreadyRegistered(ctx)
		return
	}

	hashedPassword, hashErr := hashAndSaltPassword(userInput.Password)
	if hashErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	active := true
	newUser = models.User{
		FirstName:   userInput.FirstName,
		LastName:    userInput.LastName,
		Email:       strings.ToLower(userInput.Email),
		Password:    hashedPassword,
		SocialLogin: false,
		Active:      &active,
	}

	storage.DB.Create(&newUser)

	returnUser(newUser, ctx)
}

func Login(ctx iris.Context) {
	var userInput LoginUserInput
	err := ctx.ReadJSON(&userInput)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var existingUser models.User
	errorMsg := "Invalid email or password."
	userExists, userExistsErr := getAndHandleUserExists(&existingUser, userInput.Email)
	if userExistsErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if !userExists {
		utils.CreateError(iris.StatusUnauthorized, "Credentials Error", errorMsg, ctx)
		return
	}

	if existingUser.SocialLogin {
		utils.CreateError(iris.StatusUnauthorized, "Credentials Error", "Social Login Account", ctx)
		return
	}

	passwordErr := bcrypt.CompareHashAndPassword([]byte(existingUser.Password), []byte(userInput.Password))
	if passwordErr != nil {
		utils.CreateError(iris.StatusUnauthorized, "Credentials Error", errorMsg, ctx)
		return
	}

	returnUser(existingUser, ctx)
}

func GoogleLoginOrSignUp(ctx iris.Context) {
	var userInput SocialLoginInput
	err := ctx.ReadJSON(&userInput)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	endpoint := "https://www.googleapis.com/userinfo/v2/me"

	client := &http.Client{}
	req, _ := http.NewRequest("GET", endpoint, nil)
	req.Header.Set("Authorization", "Bearer "+userInput.AccessToken)
	res, googleErr := client.Do(req)
	if googleErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	defer res.Body.Close()
	body, bodyErr := io.ReadAll(res.Body)
	if bodyErr != nil {
		log.Printf("GoogleLoginOrSignUp: read body: %v", bodyErr)
		utils.CreateInternalServerError(ctx)
		return
	}

	var googleBody GoogleUserRes
	json.Unmarshal(body, &googleBody)

	if googleBody.Email == "" {
		utils.CreateError(iris.StatusUnauthorized, "Credentials Error", "Could not verify Google account.", ctx)
		return
	}

	socialLoginOrSignUp(ctx, googleBody.Email, googleBody.GivenName, googleBody.FamilyName, "Google")
}

func FacebookLoginOrSignUp(ctx iris.Context) {
	var userInput SocialLoginInput
	err := ctx.ReadJSON(&userInput)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	endpoint := "https://graph.facebook.com/me?fields=id,name,email&access_token=" + userInput.AccessToken
	client := &http.Client{}
	req, _ := http.NewRequest("GET", endpoint, nil)
	res, facebookErr := client.Do(req)
	if facebookErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	defer res.Body.Close()
	body, bodyErr := io.ReadAll(res.Body)
	if bodyErr != nil {
		log.Printf("FacebookLoginOrSignUp: read body: %v", bodyErr)
		utils.CreateInternalServerError(ctx)
		return
	}

	var facebookBody FacebookUserRes
	json.Unmarshal(body, &facebookBody)

	if facebookBody.Email == "" {
		utils.CreateError(iris.StatusUnauthorized, "Credentials Error", "Could not verify Facebook account.", ctx)
		return
	}

	firstName, lastName := facebookBody.Name, ""
	if nameArr := strings.SplitN(facebookBody.Name, " ", 2); len(nameArr) == 2 {
		firstName, lastName = nameArr[0], nameArr[1]
	}

	socialLoginOrSignUp(ctx, facebookBody.Email, firstName, lastName, "Facebook")
}

func AppleLoginOrSignUp(ctx iris.Context) {
	var userInput AppleUserInput
	err := ctx.ReadJSON(&userInput)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	jwks, jwksErr := keyfunc.Get("https://appleid.apple.com/auth/keys", keyfunc.Options{})
	if jwksErr != nil {
		log.Printf("AppleLoginOrSignUp: jwks fetch: %v", jwksErr)
		utils.CreateInternalServerError(ctx)
		return
	}

	token, tokenErr := jwt.Parse(userInput.IdentityToken, jwks.Keyfunc)
	if tokenErr != nil || !token.Valid {
		utils.CreateError(iris.StatusUnauthorized, "Credentials Error", "Invalid identity token.", ctx)
		return
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		utils.CreateError(iris.StatusUnauthorized, "Credentials Error", "Invalid identity token.", ctx)
		return
	}
	email, _ := claims["email"].(string)
	if email == "" {
		utils.CreateError(iris.StatusUnauthorized, "Credentials Error", "Could not verify Apple account.", ctx)
		return
	}

	socialLoginOrSignUp(ctx, email, "", "", "Apple")
}

// socialLoginOrSignUp creates the user on first social sign-in; an existing
// email reattaches to the existing identity, except when it belongs to a
// password account.
func socialLoginOrSignUp(ctx iris.Context, email, firstName, lastName, provider string) {
	var user models.User
	userExists, userExistsErr := getAndHandleUserExists(&user, email)
	if userExistsErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if !userExists {
		active := true
		user = models.User{
			FirstName:      firstName,
			LastName:       lastName,
			Email:          strings.ToLower(email),
			SocialLogin:    true,
			SocialProvider: provider,
			Active:         &active,
		}
		storage.DB.Create(&user)

		returnUser(user, ctx)
		return
	}

	if user.SocialLogin {
		returnUser(user, ctx)
		return
	}

	utils.CreateEmailAlreadyRegistered(ctx)
}

func GetUser(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var user models.User
	if err := storage.DB.Preload("Spaces").First(&user, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	ctx.JSON(&user)
}

func GetUserSavedSpaces(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var user models.User
	if err := storage.DB.First(&user, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var savedIDs []uint
	if user.SavedSpaces != nil {
		json.Unmarshal(user.SavedSpaces, &savedIDs)
	}

	spaces := []models.ParkingSpace{}
	if len(savedIDs) > 0 {
		if err := storage.DB.Where("id IN ?", savedIDs).Find(&spaces).Error; err != nil {
			log.Printf("GetUserSavedSpaces: %v", err)
			utils.CreateQueryFailed(ctx)
			return
		}
	}

	ctx.JSON(spaces)
}

func AlterUserSavedSpaces(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var input AlterSavedSpacesInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if input.Op != "add" && input.Op != "remove" {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "op must be add or remove", ctx)
		return
	}

	var user models.User
	if err := storage.DB.First(&user, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var savedIDs []uint
	if user.SavedSpaces != nil {
		json.Unmarshal(user.SavedSpaces, &savedIDs)
	}

	switch input.Op {
	case "add":
		if !slices.Contains(savedIDs, input.SpaceID) {
			savedIDs = append(savedIDs, input.SpaceID)
		}
	case "remove":
		if i := slices.Index(savedIDs, input.SpaceID); i >= 0 {
			savedIDs = slices.Delete(savedIDs, i, i+1)
		}
	}

	marshalled, marshalErr := json.Marshal(savedIDs)
	if marshalErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	user.SavedSpaces = marshalled

	if err := storage.DB.Save(&user).Error; err != nil {
		log.Printf("AlterUserSavedSpaces: %v", err)
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(&user)
}

func getAndHandleUserExists(user *models.User, email string) (exists bool, err error) {
	userExistsQuery := storage.DB.Where("email = ?", strings.ToLower(email)).Limit(1).Find(&user)

	if userExistsQuery.Error != nil {
		if errors.Is(userExistsQuery.Error, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, userExistsQuery.Error
	}

	return userExistsQuery.RowsAffected > 0, nil
}

func hashAndSaltPassword(password string) (hashedPassword string, err error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func returnUser(user models.User, ctx iris.Context) {
	tokenPair, tokenErr := utils.CreateTokenPair(user.ID)
	if tokenErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"ID":           user.ID,
		"firstName":    user.FirstName,
		"lastName":     user.LastName,
		"email":        user.Email,
		"role":         user.Role,
		"savedSpaces":  user.SavedSpaces,
		"accessToken":  string(tokenPair.AccessToken),
		"refreshToken": string(tokenPair.RefreshToken),
	})
}

type RegisterUserInput struct {
	FirstName string `json:"firstName" validate:"required,max=256"`
	LastName  string `json:"lastName" validate:"required,max=256"`
	Email     string `json:"email" validate:"required,max=256,email"`
	Password  string `json:"password" validate:"required,min=8,max=256"`
}

type LoginUserInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SocialLoginInput struct {
	AccessToken string `json:"accessToken" validate:"required"`
}

type AppleUserInput struct {
	IdentityToken string `json:"identityToken" validate:"required"`
}

type FacebookUserRes struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type GoogleUserRes struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
}

type AlterSavedSpacesInput struct {
	SpaceID uint   `json:"spaceID" validate:"required"`
	Op      string `json:"op" validate:"required"`
}
