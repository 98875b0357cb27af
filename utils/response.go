package utils

import (
	"github.com/gin-gonic/gin"
)

// Client facing messages.
const (
	MsgLoginRequired       = "يجب تسجيل الدخول"
	MsgForbidden           = "غير مصرح"
	MsgServerError         = "حدث خطأ في الخادم"
	MsgInvalidInput        = "البيانات المدخلة غير صالحة"
	MsgInvalidCredentials  = "اسم المستخدم أو كلمة المرور غير صحيحة"
	MsgUserExists          = "اسم المستخدم أو البريد الإلكتروني مستخدم بالفعل"
	MsgUserNotFound        = "المستخدم غير موجود"
	MsgSalonsFetchFailed   = "حدث خطأ أثناء استرجاع الصالونات"
	MsgBookingsFetchFailed = "حدث خطأ أثناء استرجاع الحجوزات"
	MsgReviewsFetchFailed  = "حدث خطأ أثناء استرجاع التقييمات"
	MsgBookingUpdateFailed = "حدث خطأ أثناء تحديث حالة الحجز"
	MsgSalonNotFound       = "الصالون غير موجود"
	MsgServiceNotFound     = "الخدمة غير موجودة"
	MsgStaffNotFound       = "الموظف غير موجود"
	MsgInvalidBooking      = "بيانات الحجز غير صالحة"
	MsgInvalidStatus       = "حالة الحجز غير صالحة"
	MsgBookingNotFound     = "الحجز غير موجود"
	MsgInvalidReview       = "بيانات التقييم غير صالحة"
	MsgReviewNotFound      = "التقييم غير موجود"
	MsgPromotionNotFound   = "العرض غير موجود"
	MsgPromotionCodeTaken  = "رمز العرض مستخدم بالفعل"
	MsgTierNotFound        = "فئة العضوية غير موجودة"
	MsgInvalidAmount       = "المبلغ غير صالح"
	MsgPaymentFailed       = "حدث خطأ أثناء معالجة الدفع"
	MsgPaymentNotCompleted = "لم تكتمل عملية الدفع"
	MsgPaymentProcessed    = "تمت معالجة هذه العملية مسبقاً"
	MsgRecommendFailed     = "حدث خطأ أثناء استرجاع التوصيات"
	MsgTooManyRequests     = "عدد الطلبات كبير جداً، حاول لاحقاً"

	MsgLoggedOut      = "تم تسجيل الخروج بنجاح"
	MsgProfileUpdated = "تم تحديث الملف الشخصي"
)

// RespondWithError aborts the request with {"message": ..., "error": ...}.
// The error detail is only included when err is given.
func RespondWithError(c *gin.Context, status int, message string, err ...error) {
	body := gin.H{"message": message}
	if len(err) > 0 && err[0] != nil {
		body["error"] = err[0].Error()
	}
	c.AbortWithStatusJSON(status, body)
}
