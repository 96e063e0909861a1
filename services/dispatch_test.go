package services

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"gtr-backend/config"
	"gtr-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Account{}, &models.User{}, &models.Reminder{}, &models.SentLog{}))
	return db
}

type emailCall struct {
	To      string
	Subject string
}

type fakeEmailSender struct {
	calls []emailCall
	fail  bool
}

func (f *fakeEmailSender) Send(to, subject, body string, cfg config.SMTPConfig) (bool, string) {
	f.calls = append(f.calls, emailCall{To: to, Subject: subject})
	if f.fail {
		return false, "smtp: authentication failed"
	}
	return true, "Sent"
}

type chatCall struct {
	Number  string
	Message string
}

type fakeChatSender struct {
	startErr error
	calls    []chatCall
	closed   bool
}

func (f *fakeChatSender) Start() error { return f.startErr }

func (f *fakeChatSender) Send(number, message string) (bool, string) {
	f.calls = append(f.calls, chatCall{Number: number, Message: message})
	return true, "Sent"
}

func (f *fakeChatSender) Close() { f.closed = true }

func newTestDispatch(db *gorm.DB, email *fakeEmailSender, chat *fakeChatSender) (*DispatchService, *int) {
	chatsBuilt := 0
	svc := &DispatchService{
		db:    db,
		email: email,
		newChat: func() ChatSender {
			chatsBuilt++
			return chat
		},
		now: time.Now,
	}
	return svc, &chatsBuilt
}

func seedUser(t *testing.T, db *gorm.DB, name, birthdate, email, phone string) models.User {
	t.Helper()
	user := models.User{Name: name, Birthdate: birthdate, Role: "Coordenador", Utec: "UTEC PINA", Email: email, Phone: phone}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedReminder(t *testing.T, db *gorm.DB, userID models.User, channel string, remindAt time.Time) models.Reminder {
	t.Helper()
	reminder := models.Reminder{
		UserID:      userID.ID,
		Title:       "Staff meeting",
		Description: "Monthly planning meeting at 10am",
		RemindAt:    remindAt,
		Channel:     channel,
	}
	require.NoError(t, db.Create(&reminder).Error)
	return reminder
}

func TestRunPassDueReminderBothChannels(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db, "Ana", "", "ana@example.com", "81999998888")
	reminder := seedReminder(t, db, user, models.ChannelBoth, time.Now().Add(-time.Hour))

	email := &fakeEmailSender{}
	chat := &fakeChatSender{}
	svc, _ := newTestDispatch(db, email, chat)

	records := svc.RunPass(config.SMTPConfig{}, false)

	require.Len(t, records, 2)
	assert.Equal(t, "email", records[0].Channel)
	assert.Equal(t, "whatsapp", records[1].Channel)
	for _, rec := range records {
		assert.True(t, rec.Success)
		assert.Equal(t, user.ID, rec.UserID)
		require.NotNil(t, rec.ReminderID)
		assert.Equal(t, reminder.ID, *rec.ReminderID)
	}

	require.Len(t, email.calls, 1)
	assert.Equal(t, "ana@example.com", email.calls[0].To)
	assert.Equal(t, "Reminder: Staff meeting", email.calls[0].Subject)

	require.Len(t, chat.calls, 1)
	assert.Equal(t, "81999998888", chat.calls[0].Number)
	assert.True(t, chat.closed)

	var logCount int64
	db.Model(&models.SentLog{}).Count(&logCount)
	assert.EqualValues(t, 2, logCount)

	var stored models.Reminder
	require.NoError(t, db.First(&stored, "id = ?", reminder.ID).Error)
	assert.True(t, stored.Sent)
}

func TestRunPassFutureReminderUntouched(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db, "Bruno", "", "bruno@example.com", "81988887777")
	reminder := seedReminder(t, db, user, models.ChannelEmail, time.Now().Add(time.Hour))

	email := &fakeEmailSender{}
	svc, _ := newTestDispatch(db, email, &fakeChatSender{})

	records := svc.RunPass(config.SMTPConfig{}, false)

	assert.Empty(t, records)
	assert.Empty(t, email.calls)

	var stored models.Reminder
	require.NoError(t, db.First(&stored, "id = ?", reminder.ID).Error)
	assert.False(t, stored.Sent)
}

func TestRunPassAlreadySentSkipped(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db, "Carla", "", "carla@example.com", "")
	reminder := seedReminder(t, db, user, models.ChannelEmail, time.Now().Add(-time.Hour))
	require.NoError(t, db.Model(&models.Reminder{}).Where("id = ?", reminder.ID).Update("sent", true).Error)

	email := &fakeEmailSender{}
	svc, _ := newTestDispatch(db, email, &fakeChatSender{})

	records := svc.RunPass(config.SMTPConfig{}, false)

	assert.Empty(t, records)
	assert.Empty(t, email.calls)
}

func TestRunPassDryRun(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db, "Davi", "", "davi@example.com", "81977776666")
	seedReminder(t, db, user, models.ChannelBoth, time.Now().Add(-time.Minute))

	email := &fakeEmailSender{}
	svc, chatsBuilt := newTestDispatch(db, email, &fakeChatSender{})

	records := svc.RunPass(config.SMTPConfig{}, true)

	require.Len(t, records, 2)
	for _, rec := range records {
		assert.True(t, rec.Success)
		assert.Equal(t, "dry run", rec.Details)
	}

	// Dry run never touches transports: no email calls, no chat session.
	assert.Empty(t, email.calls)
	assert.Zero(t, *chatsBuilt)

	// Bookkeeping still happens.
	var logCount int64
	db.Model(&models.SentLog{}).Count(&logCount)
	assert.EqualValues(t, 2, logCount)

	var stored models.Reminder
	require.NoError(t, db.First(&stored, "user_id = ?", user.ID).Error)
	assert.True(t, stored.Sent)
}

func TestRunPassMarksSentDespiteFailure(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db, "Elisa", "", "elisa@example.com", "")
	reminder := seedReminder(t, db, user, models.ChannelEmail, time.Now().Add(-time.Minute))

	email := &fakeEmailSender{fail: true}
	svc, _ := newTestDispatch(db, email, &fakeChatSender{})

	records := svc.RunPass(config.SMTPConfig{}, false)

	require.Len(t, records, 1)
	assert.False(t, records[0].Success)
	assert.Equal(t, "smtp: authentication failed", records[0].Details)

	var stored models.Reminder
	require.NoError(t, db.First(&stored, "id = ?", reminder.ID).Error)
	assert.True(t, stored.Sent)
}

func TestRunPassMissingContactLoggedNotAttempted(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db, "Fabio", "", "fabio@example.com", "")
	seedReminder(t, db, user, models.ChannelWhatsApp, time.Now().Add(-time.Minute))

	email := &fakeEmailSender{}
	chat := &fakeChatSender{}
	svc, _ := newTestDispatch(db, email, chat)

	records := svc.RunPass(config.SMTPConfig{}, false)

	require.Len(t, records, 1)
	assert.False(t, records[0].Success)
	assert.Equal(t, "not attempted", records[0].Details)
	assert.Empty(t, chat.calls)

	var logCount int64
	db.Model(&models.SentLog{}).Where("details = ?", "not attempted").Count(&logCount)
	assert.EqualValues(t, 1, logCount)
}

func TestRunPassChatStartFailureDegrades(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db, "Gilda", "", "gilda@example.com", "81966665555")
	seedReminder(t, db, user, models.ChannelBoth, time.Now().Add(-time.Minute))

	email := &fakeEmailSender{}
	chat := &fakeChatSender{startErr: errors.New("twilio credentials not configured")}
	svc, _ := newTestDispatch(db, email, chat)

	records := svc.RunPass(config.SMTPConfig{}, false)

	// Session-failure record plus one per channel.
	require.Len(t, records, 3)
	assert.Contains(t, records[0].Details, "failed to start WhatsApp sender")
	assert.Empty(t, records[0].Channel)

	assert.Equal(t, "email", records[1].Channel)
	assert.True(t, records[1].Success)
	require.Len(t, email.calls, 1)

	assert.Equal(t, "whatsapp", records[2].Channel)
	assert.False(t, records[2].Success)
	assert.Equal(t, "WhatsApp sender not initialized", records[2].Details)
	assert.Empty(t, chat.calls)

	// The session failure itself gets no sent_log row.
	var logCount int64
	db.Model(&models.SentLog{}).Count(&logCount)
	assert.EqualValues(t, 2, logCount)
}

func TestRunPassBirthdayGreetingAndDedup(t *testing.T) {
	db := openTestDB(t)
	birthdate := time.Now().AddDate(-30, 0, 0).Format("2006-01-02")
	user := seedUser(t, db, "Helena", birthdate, "helena@example.com", "81955554444")

	email := &fakeEmailSender{}
	chat := &fakeChatSender{}
	svc, _ := newTestDispatch(db, email, chat)

	records := svc.RunPass(config.SMTPConfig{}, false)

	require.Len(t, records, 2)
	assert.Equal(t, "email (birthday)", records[0].Channel)
	assert.Nil(t, records[0].ReminderID)
	assert.Equal(t, "whatsapp (birthday)", records[1].Channel)
	assert.Equal(t, user.ID, records[1].UserID)
	require.Len(t, email.calls, 1)
	assert.Equal(t, "Happy birthday!", email.calls[0].Subject)
	require.Len(t, chat.calls, 1)

	// Second pass on the same day sends nothing more.
	again := svc.RunPass(config.SMTPConfig{}, false)
	assert.Empty(t, again)
	assert.Len(t, email.calls, 1)
	assert.Len(t, chat.calls, 1)

	var logCount int64
	db.Model(&models.SentLog{}).Count(&logCount)
	assert.EqualValues(t, 2, logCount)
}

func TestRunPassBirthdayMalformedDateSkipped(t *testing.T) {
	db := openTestDB(t)
	seedUser(t, db, "Igor", "31/12/1990", "igor@example.com", "81944443333")

	email := &fakeEmailSender{}
	svc, _ := newTestDispatch(db, email, &fakeChatSender{})

	records := svc.RunPass(config.SMTPConfig{}, false)

	assert.Empty(t, records)
	assert.Empty(t, email.calls)
}

func TestRunPassBirthdayOtherDaySkipped(t *testing.T) {
	db := openTestDB(t)
	notToday := time.Now().AddDate(-25, 0, 1).Format("2006-01-02")
	seedUser(t, db, "Joana", notToday, "joana@example.com", "")

	email := &fakeEmailSender{}
	svc, _ := newTestDispatch(db, email, &fakeChatSender{})

	records := svc.RunPass(config.SMTPConfig{}, false)

	assert.Empty(t, records)
}

func TestRunPassDanglingReminderSkipped(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db, "Kleber", "", "kleber@example.com", "")
	seedReminder(t, db, user, models.ChannelEmail, time.Now().Add(-time.Minute))
	require.NoError(t, db.Delete(&models.User{}, "id = ?", user.ID).Error)

	email := &fakeEmailSender{}
	svc, _ := newTestDispatch(db, email, &fakeChatSender{})

	records := svc.RunPass(config.SMTPConfig{}, false)

	assert.Empty(t, records)
	assert.Empty(t, email.calls)
}
