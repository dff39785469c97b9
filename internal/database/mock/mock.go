package mock

import (
	"cmp"
	"context"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/studylync/studylync/internal/database"
)

var _ database.DB = (*MockDB)(nil)

// MockDB is a mock implementation of database.DB for testing.
type MockDB struct {
	mu sync.RWMutex

	users     map[string]*database.User
	courses   map[string]*database.Course
	locations map[uint]*database.Location
	sessions  map[uint]*database.StudySession
	reviews   []database.Review

	nextLocationID uint
	nextSessionID  uint
	nextReviewID   uint

	// Error simulation
	CreateUserError     error
	GetUserError        error
	CreateCourseError   error
	CreateLocationError error
	CreateSessionError  error
	GetSessionError     error
	GetSessionsError    error
	JoinSessionError    error
	LeaveSessionError   error
	DeleteSessionError  error
	CreateReviewError   error
	GetReviewsError     error
	GetTopCoursesError  error
	PingError           error

	// Call counters
	GetTopCoursesCalls    int
	GetRecentReviewsCalls int
}

// NewMockDB creates a new MockDB instance.
func NewMockDB() *MockDB {
	m := &MockDB{}
	m.Reset()
	return m
}

// Reset clears all data and errors from the mock database.
func (m *MockDB) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.users = make(map[string]*database.User)
	m.courses = make(map[string]*database.Course)
	m.locations = make(map[uint]*database.Location)
	m.sessions = make(map[uint]*database.StudySession)
	m.reviews = nil
	m.nextLocationID = 1
	m.nextSessionID = 1
	m.nextReviewID = 1

	m.CreateUserError = nil
	m.GetUserError = nil
	m.CreateCourseError = nil
	m.CreateLocationError = nil
	m.CreateSessionError = nil
	m.GetSessionError = nil
	m.GetSessionsError = nil
	m.JoinSessionError = nil
	m.LeaveSessionError = nil
	m.DeleteSessionError = nil
	m.CreateReviewError = nil
	m.GetReviewsError = nil
	m.GetTopCoursesError = nil
	m.PingError = nil

	m.GetTopCoursesCalls = 0
	m.GetRecentReviewsCalls = 0
}

// SetSessionCreatedAt overrides the creation time of a session.
func (m *MockDB) SetSessionCreatedAt(id uint, t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		s.CreatedAt = t
	}
}

func (m *MockDB) CreateUser(_ context.Context, user *database.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateUserError != nil {
		return m.CreateUserError
	}
	if _, ok := m.users[user.NetID]; ok {
		return database.ErrDuplicate
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return database.ErrDuplicate
		}
	}
	now := time.Now()
	user.CreatedAt, user.UpdatedAt = now, now
	u := *user
	m.users[user.NetID] = &u
	return nil
}

func (m *MockDB) GetUser(_ context.Context, netID string) (*database.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.GetUserError != nil {
		return nil, m.GetUserError
	}
	u, ok := m.users[netID]
	if !ok {
		return nil, database.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *MockDB) GetUsers(_ context.Context) ([]database.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sortedUsers(func(database.User) bool { return true }), nil
}

func (m *MockDB) GetUsersBySession(_ context.Context, sessionID uint) ([]database.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.participants(sessionID), nil
}

func (m *MockDB) CreateCourse(_ context.Context, course *database.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateCourseError != nil {
		return m.CreateCourseError
	}
	if _, ok := m.courses[course.Title]; ok {
		return database.ErrDuplicate
	}
	c := *course
	m.courses[course.Title] = &c
	return nil
}

func (m *MockDB) GetCourse(_ context.Context, title string) (*database.Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.courses[title]
	if !ok {
		return nil, database.ErrCourseNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *MockDB) GetCourses(_ context.Context) ([]database.Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	courses := make([]database.Course, 0, len(m.courses))
	for _, c := range m.courses {
		courses = append(courses, *c)
	}
	slices.SortFunc(courses, func(a, b database.Course) int { return cmp.Compare(a.Title, b.Title) })
	return courses, nil
}

func (m *MockDB) CreateLocation(_ context.Context, location *database.Location) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateLocationError != nil {
		return m.CreateLocationError
	}
	m.insertLocation(location)
	return nil
}

func (m *MockDB) insertLocation(location *database.Location) {
	if location.Address == "" {
		location.Address = database.DefaultAddress
	}
	location.ID = m.nextLocationID
	m.nextLocationID++
	l := *location
	m.locations[l.ID] = &l
}

func (m *MockDB) GetLocation(_ context.Context, id uint) (*database.Location, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	l, ok := m.locations[id]
	if !ok {
		return nil, database.ErrLocationNotFound
	}
	cp := *l
	return &cp, nil
}

func (m *MockDB) GetLocations(_ context.Context) ([]database.Location, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	locations := make([]database.Location, 0, len(m.locations))
	for _, l := range m.locations {
		locations = append(locations, *l)
	}
	slices.SortFunc(locations, func(a, b database.Location) int { return cmp.Compare(a.ID, b.ID) })
	return locations, nil
}

func (m *MockDB) CreateSession(_ context.Context, params database.CreateSessionParams) (*database.StudySession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateSessionError != nil {
		return nil, m.CreateSessionError
	}
	if _, ok := m.courses[params.CourseTitle]; !ok {
		return nil, database.ErrCourseNotFound
	}

	if params.Status == database.SessionStatusClosed && params.CreatorNetID != "" {
		return nil, database.ErrSessionClosed
	}

	var locationID uint
	switch {
	case params.LocationID != nil:
		if _, ok := m.locations[*params.LocationID]; !ok {
			return nil, database.ErrLocationNotFound
		}
		locationID = *params.LocationID
	case params.NewLocation != nil:
	default:
		return nil, database.ErrLocationNotFound
	}

	if params.CreatorNetID != "" {
		creator, ok := m.users[params.CreatorNetID]
		if !ok {
			return nil, database.ErrUserNotFound
		}
		if creator.SessionID != nil {
			return nil, database.ErrAlreadyInSession
		}
	}

	if params.LocationID == nil {
		loc := *params.NewLocation
		m.insertLocation(&loc)
		locationID = loc.ID
	}

	now := time.Now()
	session := &database.StudySession{
		ID:          m.nextSessionID,
		CourseTitle: params.CourseTitle,
		LocationID:  locationID,
		Status:      params.Status,
		Description: params.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if session.Status == "" {
		session.Status = database.SessionStatusActive
	}
	m.nextSessionID++
	m.sessions[session.ID] = session

	if params.CreatorNetID != "" {
		id := session.ID
		m.users[params.CreatorNetID].SessionID = &id
	}

	cp := *session
	return &cp, nil
}

func (m *MockDB) GetSession(_ context.Context, id uint) (*database.SessionView, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.GetSessionError != nil {
		return nil, m.GetSessionError
	}
	s, ok := m.sessions[id]
	if !ok {
		return nil, database.ErrSessionNotFound
	}
	view := m.view(s)
	return &view, nil
}

func (m *MockDB) GetSessionViews(_ context.Context, courseTitle string) ([]database.SessionView, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.GetSessionsError != nil {
		return nil, m.GetSessionsError
	}
	views := make([]database.SessionView, 0, len(m.sessions))
	for _, s := range m.sessions {
		if courseTitle != "" && s.CourseTitle != courseTitle {
			continue
		}
		views = append(views, m.view(s))
	}
	slices.SortFunc(views, func(a, b database.SessionView) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return views, nil
}

func (m *MockDB) GetSessionsCreatedBefore(_ context.Context, before time.Time) ([]database.StudySession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var sessions []database.StudySession
	for _, s := range m.sessions {
		if s.CreatedAt.Before(before) {
			sessions = append(sessions, *s)
		}
	}
	slices.SortFunc(sessions, func(a, b database.StudySession) int { return cmp.Compare(a.ID, b.ID) })
	return sessions, nil
}

func (m *MockDB) JoinSession(_ context.Context, netID string, sessionID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.JoinSessionError != nil {
		return m.JoinSessionError
	}
	s, ok := m.sessions[sessionID]
	if !ok {
		return database.ErrSessionNotFound
	}
	if s.Status == database.SessionStatusClosed {
		return database.ErrSessionClosed
	}
	u, ok := m.users[netID]
	if !ok {
		return database.ErrUserNotFound
	}
	if u.SessionID != nil {
		return database.ErrAlreadyInSession
	}
	id := sessionID
	u.SessionID = &id
	return nil
}

func (m *MockDB) LeaveSession(_ context.Context, netID string, sessionID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.LeaveSessionError != nil {
		return m.LeaveSessionError
	}
	u, ok := m.users[netID]
	if !ok {
		return database.ErrUserNotFound
	}
	if u.SessionID == nil || *u.SessionID != sessionID {
		return database.ErrNotInSession
	}
	u.SessionID = nil
	return nil
}

func (m *MockDB) DeleteSession(_ context.Context, id uint) ([]database.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.DeleteSessionError != nil {
		return nil, m.DeleteSessionError
	}
	if _, ok := m.sessions[id]; !ok {
		return nil, database.ErrSessionNotFound
	}
	participants := m.participants(id)
	for _, u := range m.users {
		if u.SessionID != nil && *u.SessionID == id {
			u.SessionID = nil
		}
	}
	for i := range m.reviews {
		if m.reviews[i].SessionID != nil && *m.reviews[i].SessionID == id {
			m.reviews[i].SessionID = nil
		}
	}
	delete(m.sessions, id)
	return participants, nil
}

func (m *MockDB) DetachAllParticipants(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for _, u := range m.users {
		if u.SessionID != nil {
			u.SessionID = nil
			n++
		}
	}
	return n, nil
}

func (m *MockDB) GetTopCourses(_ context.Context, limit int) ([]database.CourseAttendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetTopCoursesCalls++
	if m.GetTopCoursesError != nil {
		return nil, m.GetTopCoursesError
	}

	counts := make(map[string]int64)
	for _, s := range m.sessions {
		counts[s.CourseTitle] += int64(len(m.participants(s.ID)))
	}
	rows := make([]database.CourseAttendance, 0, len(counts))
	for title, n := range counts {
		var name string
		if c, ok := m.courses[title]; ok {
			name = c.Name
		}
		rows = append(rows, database.CourseAttendance{CourseTitle: title, CourseName: name, StudentCount: n})
	}
	slices.SortFunc(rows, func(a, b database.CourseAttendance) int {
		if c := cmp.Compare(b.StudentCount, a.StudentCount); c != 0 {
			return c
		}
		return cmp.Compare(a.CourseTitle, b.CourseTitle)
	})
	if limit >= 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (m *MockDB) CreateReview(_ context.Context, review *database.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateReviewError != nil {
		return m.CreateReviewError
	}
	if review.Rating < 1 || review.Rating > 5 {
		return database.ErrInvalidRating
	}
	if _, ok := m.users[review.UserNetID]; !ok {
		return database.ErrUserNotFound
	}
	if review.SessionID != nil {
		if _, ok := m.sessions[*review.SessionID]; !ok {
			return database.ErrSessionNotFound
		}
	}
	review.ID = m.nextReviewID
	m.nextReviewID++
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now()
	}
	m.reviews = append(m.reviews, *review)
	return nil
}

func (m *MockDB) GetReviews(_ context.Context) ([]database.ReviewView, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.GetReviewsError != nil {
		return nil, m.GetReviewsError
	}
	return m.reviewViews(-1), nil
}

func (m *MockDB) GetRecentReviews(_ context.Context, limit int) ([]database.ReviewView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetRecentReviewsCalls++
	if m.GetReviewsError != nil {
		return nil, m.GetReviewsError
	}
	return m.reviewViews(limit), nil
}

func (m *MockDB) GetAverageRating(_ context.Context) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.GetReviewsError != nil {
		return 0, m.GetReviewsError
	}
	if len(m.reviews) == 0 {
		return 0, nil
	}
	var sum int
	for _, r := range m.reviews {
		sum += r.Rating
	}
	avg := float64(sum) / float64(len(m.reviews))
	return math.Round(avg*100) / 100, nil
}

func (m *MockDB) GetStats(_ context.Context) (*database.Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := &database.Stats{
		Users:     int64(len(m.users)),
		Courses:   int64(len(m.courses)),
		Locations: int64(len(m.locations)),
		Sessions:  int64(len(m.sessions)),
		Reviews:   int64(len(m.reviews)),
	}
	for _, u := range m.users {
		if u.SessionID != nil {
			stats.AssignedUsers++
		}
	}
	for _, s := range m.sessions {
		if s.Status == database.SessionStatusActive {
			stats.ActiveSessions++
		}
	}
	return stats, nil
}

func (m *MockDB) Ping(_ context.Context) error {
	return m.PingError
}

func (m *MockDB) Close() error {
	return nil
}

// participants must be called with the lock held.
func (m *MockDB) participants(sessionID uint) []database.User {
	return m.sortedUsers(func(u database.User) bool {
		return u.SessionID != nil && *u.SessionID == sessionID
	})
}

func (m *MockDB) sortedUsers(keep func(database.User) bool) []database.User {
	users := make([]database.User, 0)
	for _, u := range m.users {
		if keep(*u) {
			users = append(users, *u)
		}
	}
	slices.SortFunc(users, func(a, b database.User) int { return cmp.Compare(a.NetID, b.NetID) })
	return users
}

func (m *MockDB) view(s *database.StudySession) database.SessionView {
	view := database.SessionView{
		ID:               s.ID,
		CourseTitle:      s.CourseTitle,
		LocationID:       s.LocationID,
		Status:           s.Status,
		Description:      s.Description,
		ParticipantCount: int64(len(m.participants(s.ID))),
		CreatedAt:        s.CreatedAt,
	}
	if c, ok := m.courses[s.CourseTitle]; ok {
		view.CourseName = c.Name
	}
	if l, ok := m.locations[s.LocationID]; ok {
		view.LocationName = l.Name
		view.Latitude = l.Latitude
		view.Longitude = l.Longitude
		view.Address = l.Address
	}
	return view
}

func (m *MockDB) reviewViews(limit int) []database.ReviewView {
	perSession := make(map[uint]int64)
	for _, r := range m.reviews {
		if r.SessionID != nil {
			perSession[*r.SessionID]++
		}
	}

	views := make([]database.ReviewView, 0, len(m.reviews))
	for _, r := range m.reviews {
		v := database.ReviewView{
			ID:        r.ID,
			UserNetID: r.UserNetID,
			SessionID: r.SessionID,
			Rating:    r.Rating,
			Comment:   r.Comment,
			CreatedAt: r.CreatedAt,
		}
		if u, ok := m.users[r.UserNetID]; ok {
			v.FirstName, v.LastName = u.FirstName, u.LastName
		}
		if r.SessionID != nil {
			v.SessionReviewCount = perSession[*r.SessionID]
			if s, ok := m.sessions[*r.SessionID]; ok {
				desc := s.Description
				v.SessionDescription = &desc
			}
		}
		views = append(views, v)
	}
	slices.SortFunc(views, func(a, b database.ReviewView) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	if limit >= 0 && len(views) > limit {
		views = views[:limit]
	}
	return views
}
