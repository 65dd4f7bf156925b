package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"moodiary/models"
)

const profileImageFolder = "profile"

// Get the current user and profile
// (GET /users/me)
func (impl *ServerImpl) GetMe(c *gin.Context) {
	const op = "GetMe"
	user := currentUser(c)
	profile, err := impl.profiles.GetByUserID(c.Request.Context(), user.ID)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		writeError(c, op, err)
		return
	}
	c.JSON(http.StatusOK, DataResponse[MeResponse]{
		Data: MeResponse{
			User:    toUserResponse(user),
			Profile: toProfileResponse(profile),
		},
		Message: "ok",
	})
}

// Update the current user
// (PATCH /users/me)
func (impl *ServerImpl) PatchMe(c *gin.Context) {
	const op = "PatchMe"
	var req UserPatchRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, op, err)
		return
	}
	patch := models.UserPatch{
		UserName:                  req.UserName,
		TermsOfUseAgreement:       req.TermsOfUseAgreement,
		UseOfInformationAgreement: req.UseOfInformationAgreement,
	}
	if req.Gender != nil {
		patch.Gender = lo.ToPtr(models.Gender(*req.Gender))
	}
	if req.BirthDate != nil {
		birth, err := time.Parse(birthDateLayout, *req.BirthDate)
		if err != nil {
			writeError(c, op, fmt.Errorf("%w: %v", ErrBadRequest, err))
			return
		}
		patch.BirthDate = &birth
	}
	user, err := impl.users.Update(c.Request.Context(), currentUser(c).ID, patch)
	if err != nil {
		writeError(c, op, err)
		return
	}
	c.JSON(http.StatusOK, DataResponse[UserResponse]{
		Data:    toUserResponse(user),
		Message: "user updated",
	})
}

// Update the current user's profile, only the given fields are changed
// (PATCH /users/me/profile)
func (impl *ServerImpl) PatchMyProfile(c *gin.Context) {
	const op = "PatchMyProfile"
	var patch models.ProfilePatch
	if err := bindJSON(c, &patch); err != nil {
		writeError(c, op, err)
		return
	}
	if patch.Nickname != nil {
		nickname := strings.TrimSpace(*patch.Nickname)
		if nickname == "" {
			writeError(c, op, fmt.Errorf("%w: nickname must not be empty", ErrBadRequest))
			return
		}
		patch.Nickname = &nickname
	}
	// 自我介紹允許部分 HTML，其餘內容一律過濾
	if patch.AboutMe != nil {
		patch.AboutMe = lo.ToPtr(impl.htmlChecker.Sanitize(*patch.AboutMe))
	}
	// 大頭貼只能透過上傳 API 變更
	patch.ProfileImage = nil
	// 大分類一律由細分心情決定
	if patch.MoodMicroStatusID != nil {
		mood, err := impl.moods.GetMicro(c.Request.Context(), *patch.MoodMicroStatusID)
		if errors.Is(err, models.ErrNotFound) {
			writeError(c, op, fmt.Errorf("%w: unknown mood status %d", ErrBadRequest, *patch.MoodMicroStatusID))
			return
		}
		if err != nil {
			writeError(c, op, err)
			return
		}
		patch.MoodMacroStatusID = lo.ToPtr(mood.MoodMacroStatusID)
	}

	profile, err := impl.profiles.Apply(c.Request.Context(), currentUser(c).ID, patch)
	if err != nil {
		writeError(c, op, err)
		return
	}
	c.JSON(http.StatusOK, DataResponse[*ProfileResponse]{
		Data:    toProfileResponse(profile),
		Message: "profile updated",
	})
}

// Upload a profile image
// (POST /users/me/profile/image)
func (impl *ServerImpl) PostMyProfileImage(c *gin.Context) {
	const op = "PostMyProfileImage"
	ctx := c.Request.Context()
	user := currentUser(c)

	fileHeader, err := c.FormFile("image")
	if err != nil {
		writeError(c, op, fmt.Errorf("%w: %v", ErrBadRequest, err))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		writeError(c, op, fmt.Errorf("%w: %v", ErrBadRequest, err))
		return
	}
	defer file.Close()

	// 以檔案內容判斷 MIME 類型，不信任用戶端提供的 Content-Type
	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		writeError(c, op, err)
		return
	}
	head = head[:n]
	contentType := http.DetectContentType(head)

	url, err := impl.images.UploadImage(ctx, profileImageFolder, user.ID, contentType, io.MultiReader(bytes.NewReader(head), file))
	if err != nil {
		writeError(c, op, err)
		return
	}
	previous, err := impl.profiles.SetImage(ctx, user.ID, url)
	if err != nil {
		writeError(c, op, err)
		return
	}
	// 舊圖片刪除失敗不影響這次上傳
	if previous != nil {
		if key, ok := impl.images.KeyFromURL(*previous); ok {
			if err := impl.images.DeleteObjects(ctx, []string{key}); err != nil {
				slog.Warn("Fail to delete previous profile image", slog.String("op", op), slog.String("key", key), slog.Any("error", err))
			}
		}
	}
	c.Header("Location", url)
	c.JSON(http.StatusCreated, DataResponse[map[string]string]{
		Data:    map[string]string{"profile_image": url},
		Message: "image uploaded",
	})
}

// Withdraw the current user
// (POST /users/me/withdraw)
func (impl *ServerImpl) PostWithdraw(c *gin.Context) {
	const op = "PostWithdraw"
	ctx := c.Request.Context()
	var req WithdrawRequest
	if c.Request.ContentLength != 0 {
		if err := bindJSON(c, &req); err != nil {
			writeError(c, op, err)
			return
		}
	}
	user := currentUser(c)
	if err := impl.users.Withdraw(ctx, user.ID, req.Reason, impl.now()); err != nil {
		writeError(c, op, err)
		return
	}
	if err := impl.sessions.Revoke(ctx, user.ID, user.OAuthProvider); err != nil {
		writeError(c, op, err)
		return
	}
	slog.Info("User withdrew", slog.Uint64("user", uint64(user.ID)))
	c.JSON(http.StatusOK, DataResponse[any]{Message: "withdraw success"})
}

// Activate or deactivate users in bulk
// (PUT /users/status)
func (impl *ServerImpl) PutUsersStatus(c *gin.Context) {
	const op = "PutUsersStatus"
	ctx := c.Request.Context()
	var req UserStatusRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, op, err)
		return
	}
	users, err := impl.users.UpdateActiveStatus(ctx, req.UserIDs, *req.IsActive)
	if err != nil {
		writeError(c, op, err)
		return
	}
	// 停用的使用者同時撤銷所有 token
	if !*req.IsActive {
		for _, user := range users {
			if err := impl.sessions.Revoke(ctx, user.ID, user.OAuthProvider); err != nil {
				writeError(c, op, err)
				return
			}
		}
	}
	c.JSON(http.StatusOK, DataResponse[[]UserResponse]{
		Data: lo.Map(users, func(user models.User, _ int) UserResponse {
			return toUserResponse(&user)
		}),
		Message: "status updated",
	})
}
