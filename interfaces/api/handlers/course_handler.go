package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/f2expert/f2expert-sub001/domain/dto"
	"github.com/f2expert/f2expert-sub001/domain/services"
	"github.com/f2expert/f2expert-sub001/pkg/reqctx"
	"github.com/f2expert/f2expert-sub001/pkg/utils"
	"github.com/f2expert/f2expert-sub001/pkg/validation"
)

type CourseHandler struct {
	courseService services.CourseService
	maxUploadSize int64
}

func NewCourseHandler(courseService services.CourseService, maxUploadSize int64) *CourseHandler {
	return &CourseHandler{
		courseService: courseService,
		maxUploadSize: maxUploadSize,
	}
}

// seesUnpublished is true for admins and trainers; everyone else only
// sees published courses.
func seesUnpublished(c *fiber.Ctx) bool {
	a := optionalActor(c)
	return a != nil && (a.IsAdmin() || a.IsTrainer())
}

func (h *CourseHandler) CreateCourse(c *fiber.Ctx) error {
	ctx := c.UserContext()

	req, ok := body[dto.CreateCourseRequest](c)
	if !ok {
		return utils.BadRequestResponse(c, validation.MsgBodyRequired)
	}

	course, err := h.courseService.Create(ctx, actor(c), req)
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.CreatedResponse(c, dto.CourseToCourseResponse(course), "Course created successfully")
}

func (h *CourseHandler) GetCourse(c *fiber.Ctx) error {
	course, err := h.courseService.GetByID(c.UserContext(), pathID(c), seesUnpublished(c))
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, dto.CourseToCourseResponse(course), "Course retrieved successfully")
}

func (h *CourseHandler) GetCourseBySlug(c *fiber.Ctx) error {
	params, _ := reqctx.Params[dto.CourseSlugParams](c)

	course, err := h.courseService.GetBySlug(c.UserContext(), params.Slug, seesUnpublished(c))
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, dto.CourseToCourseResponse(course), "Course retrieved successfully")
}

func (h *CourseHandler) ListCourses(c *fiber.Ctx) error {
	q := query[dto.CourseListQuery](c)

	courses, total, err := h.courseService.List(c.UserContext(), q, seesUnpublished(c))
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.PaginatedSuccessResponse(c, dto.CoursesToCourseResponses(courses), total, q.Page, q.Limit, "Courses retrieved successfully")
}

func (h *CourseHandler) UpdateCourse(c *fiber.Ctx) error {
	ctx := c.UserContext()

	req, ok := body[dto.UpdateCourseRequest](c)
	if !ok {
		return utils.BadRequestResponse(c, validation.MsgBodyRequired)
	}

	course, err := h.courseService.Update(ctx, actor(c), pathID(c), req)
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.SuccessResponse(c, dto.CourseToCourseResponse(course), "Course updated successfully")
}

func (h *CourseHandler) PublishCourse(c *fiber.Ctx) error {
	ctx := c.UserContext()

	req, ok := body[dto.PublishCourseRequest](c)
	if !ok {
		return utils.BadRequestResponse(c, validation.MsgBodyRequired)
	}

	course, err := h.courseService.SetPublished(ctx, actor(c), pathID(c), *req.IsPublished)
	if err != nil {
		return utils.HandleError(c, err)
	}

	message := "Course unpublished successfully"
	if course.IsPublished {
		message = "Course published successfully"
	}
	return utils.SuccessResponse(c, dto.CourseToCourseResponse(course), message)
}

func (h *CourseHandler) DeleteCourse(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id := pathID(c)
	if err := h.courseService.Delete(ctx, id); err != nil {
		return utils.HandleError(c, err)
	}

	return utils.NoContentResponse(c)
}

func (h *CourseHandler) UploadThumbnail(c *fiber.Ctx) error {
	ctx := c.UserContext()

	header, file, err := formFile(c, h.maxUploadSize)
	if err != nil {
		return utils.HandleError(c, err)
	}
	defer file.Close()

	course, err := h.courseService.UploadThumbnail(ctx, pathID(c), file, header.Size, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.SuccessResponse(c, dto.CourseToCourseResponse(course), "Thumbnail uploaded successfully")
}
