package grpc

// proto.go defines the gRPC server interface of bib/churn/v1/churn.proto.
// Messages travel as JSON through the codec registered in codec.go.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "bib.churn.v1.ChurnService"

// Full method names, as seen by interceptors.
const (
	MethodScoreCustomer         = "/" + ServiceName + "/ScoreCustomer"
	MethodGetBusinessOverview   = "/" + ServiceName + "/GetBusinessOverview"
	MethodCompareModels         = "/" + ServiceName + "/CompareModels"
	MethodListModels            = "/" + ServiceName + "/ListModels"
	MethodGetAssessment         = "/" + ServiceName + "/GetAssessment"
	MethodListRecentAssessments = "/" + ServiceName + "/ListRecentAssessments"
	MethodLogin                 = "/" + ServiceName + "/Login"
)

// ChurnServiceServer is the server API for ChurnService.
type ChurnServiceServer interface {
	ScoreCustomer(context.Context, *ScoreCustomerRequest) (*ScoreCustomerResponse, error)
	GetBusinessOverview(context.Context, *GetBusinessOverviewRequest) (*GetBusinessOverviewResponse, error)
	CompareModels(context.Context, *CompareModelsRequest) (*CompareModelsResponse, error)
	ListModels(context.Context, *ListModelsRequest) (*ListModelsResponse, error)
	GetAssessment(context.Context, *GetAssessmentRequest) (*GetAssessmentResponse, error)
	ListRecentAssessments(context.Context, *ListRecentAssessmentsRequest) (*ListRecentAssessmentsResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	mustEmbedUnimplementedChurnServiceServer()
}

// UnimplementedChurnServiceServer provides forward-compatible default implementations.
type UnimplementedChurnServiceServer struct{}

func (UnimplementedChurnServiceServer) ScoreCustomer(context.Context, *ScoreCustomerRequest) (*ScoreCustomerResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ScoreCustomer not implemented")
}
func (UnimplementedChurnServiceServer) GetBusinessOverview(context.Context, *GetBusinessOverviewRequest) (*GetBusinessOverviewResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetBusinessOverview not implemented")
}
func (UnimplementedChurnServiceServer) CompareModels(context.Context, *CompareModelsRequest) (*CompareModelsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method CompareModels not implemented")
}
func (UnimplementedChurnServiceServer) ListModels(context.Context, *ListModelsRequest) (*ListModelsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListModels not implemented")
}
func (UnimplementedChurnServiceServer) GetAssessment(context.Context, *GetAssessmentRequest) (*GetAssessmentResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetAssessment not implemented")
}
func (UnimplementedChurnServiceServer) ListRecentAssessments(context.Context, *ListRecentAssessmentsRequest) (*ListRecentAssessmentsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListRecentAssessments not implemented")
}
func (UnimplementedChurnServiceServer) Login(context.Context, *LoginRequest) (*LoginResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Login not implemented")
}
func (UnimplementedChurnServiceServer) mustEmbedUnimplementedChurnServiceServer() {}

// RegisterChurnServiceServer registers the ChurnServiceServer with the gRPC server.
func RegisterChurnServiceServer(s grpclib.ServiceRegistrar, srv ChurnServiceServer) {
	s.RegisterService(&ChurnService_ServiceDesc, srv)
}

// ChurnService_ServiceDesc is the grpc.ServiceDesc for ChurnService.
var ChurnService_ServiceDesc = grpclib.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ChurnServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "ScoreCustomer", Handler: unaryHandler(MethodScoreCustomer, ChurnServiceServer.ScoreCustomer)},
		{MethodName: "GetBusinessOverview", Handler: unaryHandler(MethodGetBusinessOverview, ChurnServiceServer.GetBusinessOverview)},
		{MethodName: "CompareModels", Handler: unaryHandler(MethodCompareModels, ChurnServiceServer.CompareModels)},
		{MethodName: "ListModels", Handler: unaryHandler(MethodListModels, ChurnServiceServer.ListModels)},
		{MethodName: "GetAssessment", Handler: unaryHandler(MethodGetAssessment, ChurnServiceServer.GetAssessment)},
		{MethodName: "ListRecentAssessments", Handler: unaryHandler(MethodListRecentAssessments, ChurnServiceServer.ListRecentAssessments)},
		{MethodName: "Login", Handler: unaryHandler(MethodLogin, ChurnServiceServer.Login)},
	},
	Streams:  []grpclib.StreamDesc{},
	Metadata: "bib/churn/v1/churn.proto",
}

// unaryHandler adapts a typed server method to the handler signature of
// grpc.MethodDesc, running the server's interceptor chain around it.
func unaryHandler[Req, Resp any](
	fullMethod string,
	call func(ChurnServiceServer, context.Context, *Req) (*Resp, error),
) func(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
		req := new(Req)
		if err := dec(req); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ChurnServiceServer), ctx, req)
		}
		info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ChurnServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, req, info, handler)
	}
}
