package handlers

import (
	"net/http"

	"github.com/SulimanHakimi/volvera-sub000/config"
	"github.com/SulimanHakimi/volvera-sub000/internal/policy"
	"github.com/SulimanHakimi/volvera-sub000/models"

	"github.com/gin-gonic/gin"
)

// ListNotificationsHandler - уведомления текущего пользователя, ?unread=true - только непрочитанные.
func ListNotificationsHandler(c *gin.Context) {
	p, ok := principalOrAbort(c)
	if !ok {
		return
	}

	query := config.DB.Model(&models.Notification{}).Where("user_id = ?", p.UserID)
	if c.Query("unread") == "true" {
		query = query.Where("read = ?", false)
	}

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not count notifications"})
		return
	}
	var list []models.Notification
	if err := query.Order("created_at desc, id desc").Scopes(Paginate(c)).Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load notifications"})
		return
	}
	if list == nil {
		list = make([]models.Notification, 0)
	}
	c.JSON(http.StatusOK, CreatePaginatedResponse(c, list, totalRows))
}

func MarkNotificationReadHandler(c *gin.Context) {
	p, ok := principalOrAbort(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var n models.Notification
	if err := config.DB.First(&n, id).Error; err != nil {
		respondLookupError(c, err, "Notification")
		return
	}
	if err := policy.CanReadNotification(p, &n); err != nil {
		respondForbidden(c)
		return
	}
	if err := config.DB.Model(&n).Update("read", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
		return
	}
	n.Read = true
	c.JSON(http.StatusOK, n)
}

func MarkAllNotificationsReadHandler(c *gin.Context) {
	p, ok := principalOrAbort(c)
	if !ok {
		return
	}
	result := config.DB.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", p.UserID, false).
		Update("read", true)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": result.RowsAffected})
}
